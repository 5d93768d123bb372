package repository

import (
	"github.com/mraprguild/guardbot/internal/modules/channel/domain"
)

// Repository defines the interface for channel data persistence
// This abstraction allows easy replacement of storage implementations
type Repository interface {
	SaveChannel(channel *domain.Channel) error
	GetChannel(channelID int64) (*domain.Channel, error)
	GetAllChannels() ([]*domain.Channel, error)
}
