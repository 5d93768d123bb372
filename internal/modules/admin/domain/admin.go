package domain

import "time"

// Admin represents a user allowed to manage the bot. Exactly one record
// carries IsSuperAdmin, bootstrapped from configuration at startup.
type Admin struct {
	UserID       int64     `json:"user_id"`
	GrantedBy    *int64    `json:"granted_by,omitempty"`
	GrantedAt    time.Time `json:"granted_at"`
	IsSuperAdmin bool      `json:"is_super_admin"`
}
