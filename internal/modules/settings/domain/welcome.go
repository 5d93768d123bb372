package domain

import "time"

// Welcome is the configurable greeting shown by /start
type Welcome struct {
	Message    string    `json:"message"`
	BottomText string    `json:"bottom_text"`
	UpdatedAt  time.Time `json:"updated_at"`
	UpdatedBy  int64     `json:"updated_by"`
}
