package repository

import (
	"time"

	"github.com/mraprguild/guardbot/internal/modules/counter/domain"
)

// Repository defines the interface for moderation counter persistence
type Repository interface {
	// RecordMessage bumps the per-channel and global counters in one atomic
	// update. Concurrent calls for the same channel never lose increments.
	RecordMessage(channelID int64, blocked bool, at time.Time) error
	GetCounter(channelID int64) (*domain.Counter, error)
	GetGlobalCounter() (*domain.Counter, error)
	GetChannelCounters() ([]*domain.Counter, error)
}
