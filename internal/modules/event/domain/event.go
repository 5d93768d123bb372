package domain

import "time"

// BlockEvent records one blocked message for the admin audit feed
type BlockEvent struct {
	ID        string    `json:"id"`
	ChannelID int64     `json:"channel_id"`
	RuleSeq   uint64    `json:"rule_seq"`
	Pattern   string    `json:"pattern"`
	At        time.Time `json:"at"`
}
