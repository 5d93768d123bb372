package repository

import (
	"github.com/mraprguild/guardbot/internal/modules/settings/domain"
)

// Repository defines the interface for bot settings persistence
type Repository interface {
	SaveWelcome(welcome *domain.Welcome) error
	GetWelcome() (*domain.Welcome, error)
}
