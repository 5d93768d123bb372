package repository

import (
	"encoding/json"
	"errors"

	"github.com/mraprguild/guardbot/internal/modules/event/domain"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/samber/oops"
)

const (
	collection = "events"
	recentKey  = "recent"
	maxEvents  = 200
)

// StoreStorage keeps the most recent block events, newest first, in a single
// capped record
type StoreStorage struct {
	store *storage.Store
}

// NewStoreStorage creates a store-backed event repository
func NewStoreStorage(store *storage.Store) Repository {
	return &StoreStorage{store: store}
}

func (s *StoreStorage) Append(event *domain.BlockEvent) error {
	return s.store.AtomicUpdate(collection, recentKey, func(current []byte) ([]byte, error) {
		var events []*domain.BlockEvent
		if current != nil {
			if err := json.Unmarshal(current, &events); err != nil {
				return nil, oops.With("context", "failed to unmarshal event log").Wrap(err)
			}
		}

		events = append([]*domain.BlockEvent{event}, events...)
		if len(events) > maxEvents {
			events = events[:maxEvents]
		}

		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return nil, oops.With("context", "failed to marshal event log").Wrap(err)
		}
		return data, nil
	})
}

func (s *StoreStorage) Recent(limit int) ([]*domain.BlockEvent, error) {
	data, err := s.store.Get(collection, recentKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var events []*domain.BlockEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, oops.With("context", "failed to unmarshal event log").Wrap(err)
	}

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
