package repository

import (
	"github.com/mraprguild/guardbot/internal/modules/event/domain"
)

// Repository defines the interface for the moderation audit log
type Repository interface {
	Append(event *domain.BlockEvent) error
	Recent(limit int) ([]*domain.BlockEvent, error)
}
