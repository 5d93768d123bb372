package service

import (
	"errors"
	"log/slog"
	"time"

	adminDomain "github.com/mraprguild/guardbot/internal/modules/admin/domain"
	"github.com/mraprguild/guardbot/internal/modules/settings/domain"
	"github.com/mraprguild/guardbot/internal/modules/settings/repository"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/samber/oops"
)

// RoleResolver resolves a user to an authorization role
type RoleResolver interface {
	RoleOf(userID int64) (adminDomain.Role, error)
}

const defaultWelcome = "Welcome! This group is moderated. Use /help to see the available commands."

// Service manages the configurable bot settings
type Service struct {
	repo  repository.Repository
	roles RoleResolver
}

// New creates a new settings service
func New(repo repository.Repository, roles RoleResolver) *Service {
	return &Service{repo: repo, roles: roles}
}

// Welcome returns the configured greeting, falling back to the default when
// none has been set yet
func (s *Service) Welcome() *domain.Welcome {
	welcome, err := s.repo.GetWelcome()
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			slog.Error("Failed to load welcome settings", "error", err)
		}
		return &domain.Welcome{Message: defaultWelcome}
	}
	return welcome
}

// SetWelcome updates the greeting. Admin-only.
func (s *Service) SetWelcome(actorID int64, message, bottomText string) error {
	role, err := s.roles.RoleOf(actorID)
	if err != nil {
		return err
	}
	if role == adminDomain.RoleNone {
		return oops.With("actor_id", actorID).Wrap(apperrors.ErrPermissionDenied)
	}

	return s.repo.SaveWelcome(&domain.Welcome{
		Message:    message,
		BottomText: bottomText,
		UpdatedAt:  time.Now(),
		UpdatedBy:  actorID,
	})
}
