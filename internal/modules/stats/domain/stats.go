package domain

import (
	counterDomain "github.com/mraprguild/guardbot/internal/modules/counter/domain"
)

// Stats is the dashboard snapshot. Sub-aggregates whose collection could not
// be read are zeroed and named in Unavailable, so the dashboard can render a
// partial view instead of failing outright.
type Stats struct {
	TotalAdmins   int                      `json:"total_admins"`
	TotalChannels int                      `json:"total_channels"`
	TotalKeywords int                      `json:"total_keywords"`
	TotalBlocked  uint64                   `json:"total_blocked"`
	PerChannel    []*counterDomain.Counter `json:"per_channel"`
	Unavailable   []string                 `json:"unavailable,omitempty"`
}

// Health is the dashboard liveness snapshot
type Health struct {
	StorageReachable     bool `json:"storage_reachable"`
	SuperAdminConfigured bool `json:"super_admin_configured"`
}
