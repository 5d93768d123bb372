package service

import (
	"errors"
	"log/slog"
	"time"

	adminDomain "github.com/mraprguild/guardbot/internal/modules/admin/domain"
	"github.com/mraprguild/guardbot/internal/modules/channel/domain"
	"github.com/mraprguild/guardbot/internal/modules/channel/repository"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// RoleResolver resolves a user to an authorization role
type RoleResolver interface {
	RoleOf(userID int64) (adminDomain.Role, error)
}

// Service is the registry of managed channels
type Service struct {
	repo  repository.Repository
	roles RoleResolver
}

// New creates a new channel service
func New(repo repository.Repository, roles RoleResolver) *Service {
	return &Service{repo: repo, roles: roles}
}

// AddChannel registers a channel for moderation. Re-adding a deactivated
// channel reactivates it, keeping the original AddedAt.
func (s *Service) AddChannel(actorID, channelID int64, title string) (*domain.Channel, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetChannel(channelID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return nil, oops.With("channel_id", channelID).Wrap(apperrors.ErrAlreadyRegistered)
		}
		existing.IsActive = true
		existing.AddedBy = actorID
		if title != "" {
			existing.Title = title
		}
		if err := s.repo.SaveChannel(existing); err != nil {
			return nil, err
		}
		slog.Info("Channel reactivated", "channel_id", channelID, "added_by", actorID)
		return existing, nil
	}

	channel := &domain.Channel{
		ChannelID: channelID,
		Title:     title,
		AddedBy:   actorID,
		AddedAt:   time.Now(),
		IsActive:  true,
	}
	if err := s.repo.SaveChannel(channel); err != nil {
		return nil, err
	}

	slog.Info("Channel added", "channel_id", channelID, "title", title, "added_by", actorID)
	return channel, nil
}

// RemoveChannel deactivates a channel, preserving its history
func (s *Service) RemoveChannel(actorID, channelID int64) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}

	channel, err := s.repo.GetChannel(channelID)
	if err != nil {
		return err
	}

	channel.IsActive = false
	if err := s.repo.SaveChannel(channel); err != nil {
		return err
	}

	slog.Info("Channel removed", "channel_id", channelID, "removed_by", actorID)
	return nil
}

// GetChannel retrieves a channel by ID
func (s *Service) GetChannel(channelID int64) (*domain.Channel, error) {
	return s.repo.GetChannel(channelID)
}

// ListActiveChannels returns the channels currently under moderation
func (s *Service) ListActiveChannels() ([]*domain.Channel, error) {
	channels, err := s.repo.GetAllChannels()
	if err != nil {
		return nil, err
	}

	return lo.Filter(channels, func(ch *domain.Channel, _ int) bool {
		return ch.IsActive
	}), nil
}

// ListAllChannels returns every registered channel, active or not
func (s *Service) ListAllChannels() ([]*domain.Channel, error) {
	return s.repo.GetAllChannels()
}

func (s *Service) requireAdmin(actorID int64) error {
	role, err := s.roles.RoleOf(actorID)
	if err != nil {
		return err
	}
	if role == adminDomain.RoleNone {
		return oops.With("actor_id", actorID).Wrap(apperrors.ErrPermissionDenied)
	}
	return nil
}
