package service

import (
	"log/slog"

	adminRepo "github.com/mraprguild/guardbot/internal/modules/admin/repository"
	channelDomain "github.com/mraprguild/guardbot/internal/modules/channel/domain"
	channelRepo "github.com/mraprguild/guardbot/internal/modules/channel/repository"
	counterRepo "github.com/mraprguild/guardbot/internal/modules/counter/repository"
	eventDomain "github.com/mraprguild/guardbot/internal/modules/event/domain"
	eventRepo "github.com/mraprguild/guardbot/internal/modules/event/repository"
	keywordRepo "github.com/mraprguild/guardbot/internal/modules/keyword/repository"
	"github.com/mraprguild/guardbot/internal/modules/stats/domain"
	"github.com/samber/lo"
)

// Pinger probes storage reachability
type Pinger interface {
	Ping() error
}

// Service aggregates read-only snapshots for the dashboard. It never mutates
// state.
type Service struct {
	admins   adminRepo.Repository
	channels channelRepo.Repository
	keywords keywordRepo.Repository
	counters counterRepo.Repository
	events   eventRepo.Repository
	store    Pinger
}

// New creates a new stats service
func New(admins adminRepo.Repository, channels channelRepo.Repository, keywords keywordRepo.Repository, counters counterRepo.Repository, events eventRepo.Repository, store Pinger) *Service {
	return &Service{
		admins:   admins,
		channels: channels,
		keywords: keywords,
		counters: counters,
		events:   events,
		store:    store,
	}
}

// GetStats builds the dashboard snapshot. Each sub-aggregate fails
// independently: an unreadable collection is reported in Unavailable and its
// totals stay zero.
func (s *Service) GetStats() *domain.Stats {
	stats := &domain.Stats{}

	if admins, err := s.admins.GetAllAdmins(); err != nil {
		stats.Unavailable = append(stats.Unavailable, "admins")
		slog.Error("Stats: admins collection unavailable", "error", err)
	} else {
		stats.TotalAdmins = len(admins)
	}

	if channels, err := s.channels.GetAllChannels(); err != nil {
		stats.Unavailable = append(stats.Unavailable, "channels")
		slog.Error("Stats: channels collection unavailable", "error", err)
	} else {
		stats.TotalChannels = lo.CountBy(channels, func(ch *channelDomain.Channel) bool { return ch.IsActive })
	}

	if rules, err := s.keywords.GetAllRules(); err != nil {
		stats.Unavailable = append(stats.Unavailable, "keywords")
		slog.Error("Stats: keywords collection unavailable", "error", err)
	} else {
		stats.TotalKeywords = len(rules)
	}

	if counters, err := s.counters.GetChannelCounters(); err != nil {
		stats.Unavailable = append(stats.Unavailable, "counters")
		slog.Error("Stats: counters collection unavailable", "error", err)
	} else {
		stats.PerChannel = counters
		for _, c := range counters {
			stats.TotalBlocked += c.TotalBlocked
		}
	}

	return stats
}

// GetHealth reports storage reachability and super-admin presence
func (s *Service) GetHealth() *domain.Health {
	health := &domain.Health{
		StorageReachable: s.store.Ping() == nil,
	}

	admins, err := s.admins.GetAllAdmins()
	if err == nil {
		for _, admin := range admins {
			if admin.IsSuperAdmin {
				health.SuperAdminConfigured = true
				break
			}
		}
	}

	return health
}

// RecentEvents returns the latest block events for the audit feed
func (s *Service) RecentEvents(limit int) ([]*eventDomain.BlockEvent, error) {
	return s.events.Recent(limit)
}
