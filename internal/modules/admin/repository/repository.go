package repository

import (
	"github.com/mraprguild/guardbot/internal/modules/admin/domain"
)

// Repository defines the interface for admin data persistence
type Repository interface {
	SaveAdmin(admin *domain.Admin) error
	GetAdmin(userID int64) (*domain.Admin, error)
	GetAllAdmins() ([]*domain.Admin, error)
	DeleteAdmin(userID int64) (bool, error)
}
