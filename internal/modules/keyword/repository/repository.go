package repository

import (
	"github.com/mraprguild/guardbot/internal/modules/keyword/domain"
)

// Repository defines the interface for keyword rule persistence
type Repository interface {
	SaveRule(rule *domain.KeywordRule) error
	GetAllRules() ([]*domain.KeywordRule, error)
	DeleteRule(seq uint64) (bool, error)
}
