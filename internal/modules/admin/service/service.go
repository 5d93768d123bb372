package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mraprguild/guardbot/internal/modules/admin/domain"
	"github.com/mraprguild/guardbot/internal/modules/admin/repository"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/samber/oops"
)

// Service resolves user roles and owns the grant/revoke lifecycle
type Service struct {
	repo repository.Repository
}

// New creates a new admin service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// RoleOf resolves a user to a role. Unknown users are RoleNone; the only
// failure mode is unavailable storage.
func (s *Service) RoleOf(userID int64) (domain.Role, error) {
	admin, err := s.repo.GetAdmin(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, err
	}

	if admin.IsSuperAdmin {
		return domain.RoleSuperAdmin, nil
	}
	return domain.RoleAdmin, nil
}

// EnsureSuperAdmin bootstraps the configured super-admin record. Changing the
// configured ID reassigns the flag: any other record holding it is demoted.
func (s *Service) EnsureSuperAdmin(userID int64) error {
	admins, err := s.repo.GetAllAdmins()
	if err != nil {
		return err
	}

	for _, admin := range admins {
		if admin.IsSuperAdmin && admin.UserID != userID {
			admin.IsSuperAdmin = false
			if err := s.repo.SaveAdmin(admin); err != nil {
				return err
			}
			slog.Info("Demoted previous super-admin", "user_id", admin.UserID)
		}
	}

	current, err := s.repo.GetAdmin(userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if current != nil && current.IsSuperAdmin {
		return nil
	}

	admin := &domain.Admin{
		UserID:       userID,
		GrantedAt:    time.Now(),
		IsSuperAdmin: true,
	}
	if current != nil {
		admin.GrantedBy = current.GrantedBy
		admin.GrantedAt = current.GrantedAt
	}

	if err := s.repo.SaveAdmin(admin); err != nil {
		return oops.With("user_id", userID, "context", "failed to bootstrap super-admin").Wrap(err)
	}

	slog.Info("Super-admin configured", "user_id", userID)
	return nil
}

// GrantAdmin makes target an admin. Only the super-admin may grant.
func (s *Service) GrantAdmin(actorID, targetID int64) (*domain.Admin, error) {
	actorRole, err := s.RoleOf(actorID)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleSuperAdmin {
		return nil, oops.With("actor_id", actorID).Wrap(apperrors.ErrPermissionDenied)
	}

	targetRole, err := s.RoleOf(targetID)
	if err != nil {
		return nil, err
	}
	if targetRole != domain.RoleNone {
		return nil, oops.With("user_id", targetID).Wrap(apperrors.ErrAlreadyAdmin)
	}

	admin := &domain.Admin{
		UserID:    targetID,
		GrantedBy: &actorID,
		GrantedAt: time.Now(),
	}
	if err := s.repo.SaveAdmin(admin); err != nil {
		return nil, err
	}

	slog.Info("Admin granted", "user_id", targetID, "granted_by", actorID)
	return admin, nil
}

// RevokeAdmin removes target's admin role. Only the super-admin may revoke,
// and the super-admin record itself cannot be revoked through this path.
func (s *Service) RevokeAdmin(actorID, targetID int64) error {
	actorRole, err := s.RoleOf(actorID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleSuperAdmin {
		return oops.With("actor_id", actorID).Wrap(apperrors.ErrPermissionDenied)
	}

	target, err := s.repo.GetAdmin(targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return oops.With("user_id", targetID).Wrap(apperrors.ErrNotAnAdmin)
		}
		return err
	}
	if target.IsSuperAdmin {
		return oops.With("user_id", targetID).Wrap(apperrors.ErrPermissionDenied)
	}

	if _, err := s.repo.DeleteAdmin(targetID); err != nil {
		return err
	}

	slog.Info("Admin revoked", "user_id", targetID, "revoked_by", actorID)
	return nil
}

// ListAdmins returns every admin record
func (s *Service) ListAdmins() ([]*domain.Admin, error) {
	return s.repo.GetAllAdmins()
}
