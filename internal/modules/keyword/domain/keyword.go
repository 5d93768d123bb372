package domain

import "time"

// KeywordRule is a single moderation rule. Seq is assigned at creation and
// fixes the evaluation order: the earliest-added matching rule wins.
type KeywordRule struct {
	Seq       uint64    `json:"seq"`
	Pattern   string    `json:"pattern"`
	MatchMode MatchMode `json:"match_mode"`
	AddedBy   int64     `json:"added_by"`
	AddedAt   time.Time `json:"added_at"`
}
