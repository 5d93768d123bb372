package domain

import "time"

// Counter tracks moderation volume for one channel. The aggregate record has
// ChannelID zero and lives under the "global" key.
type Counter struct {
	ChannelID         int64      `json:"channel_id"`
	TotalMessagesSeen uint64     `json:"total_messages_seen"`
	TotalBlocked      uint64     `json:"total_blocked"`
	LastBlockedAt     *time.Time `json:"last_blocked_at,omitempty"`
}
