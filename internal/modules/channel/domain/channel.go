package domain

import "time"

// Channel represents a Telegram channel or group under moderation. Removal
// deactivates instead of deleting so counters keep their history.
type Channel struct {
	ChannelID int64     `json:"channel_id"`
	Title     string    `json:"title"`
	AddedBy   int64     `json:"added_by"`
	AddedAt   time.Time `json:"added_at"`
	IsActive  bool      `json:"is_active"`
}
