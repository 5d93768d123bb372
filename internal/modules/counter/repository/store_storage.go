package repository

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/mraprguild/guardbot/internal/modules/counter/domain"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	collection = "counters"
	globalKey  = "global"
)

// StoreStorage implements counter.Repository over the collection store
type StoreStorage struct {
	store *storage.Store
}

// NewStoreStorage creates a store-backed counter repository
func NewStoreStorage(store *storage.Store) Repository {
	return &StoreStorage{store: store}
}

func (s *StoreStorage) RecordMessage(channelID int64, blocked bool, at time.Time) error {
	channelKey := strconv.FormatInt(channelID, 10)

	return s.store.AtomicUpdateMulti(collection, []string{channelKey, globalKey}, func(current map[string][]byte) (map[string][]byte, error) {
		next := make(map[string][]byte, 2)
		for key, id := range map[string]int64{channelKey: channelID, globalKey: 0} {
			counter, err := decode(current[key], id)
			if err != nil {
				return nil, err
			}

			counter.TotalMessagesSeen++
			if blocked {
				counter.TotalBlocked++
				t := at
				counter.LastBlockedAt = &t
			}

			data, err := json.MarshalIndent(counter, "", "  ")
			if err != nil {
				return nil, oops.With("channel_id", id, "context", "failed to marshal counter").Wrap(err)
			}
			next[key] = data
		}
		return next, nil
	})
}

func (s *StoreStorage) GetCounter(channelID int64) (*domain.Counter, error) {
	return s.get(strconv.FormatInt(channelID, 10), channelID)
}

func (s *StoreStorage) GetGlobalCounter() (*domain.Counter, error) {
	return s.get(globalKey, 0)
}

func (s *StoreStorage) GetChannelCounters() ([]*domain.Counter, error) {
	records, err := s.store.List(collection)
	if err != nil {
		return nil, err
	}

	counters := lo.FilterMap(records, func(data []byte, _ int) (*domain.Counter, bool) {
		var counter domain.Counter
		if err := json.Unmarshal(data, &counter); err != nil {
			return nil, false
		}
		if counter.ChannelID == 0 {
			return nil, false // aggregate record
		}
		return &counter, true
	})

	return counters, nil
}

func (s *StoreStorage) get(key string, channelID int64) (*domain.Counter, error) {
	data, err := s.store.Get(collection, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Counter{ChannelID: channelID}, nil
		}
		return nil, err
	}

	var counter domain.Counter
	if err := json.Unmarshal(data, &counter); err != nil {
		return nil, oops.With("key", key, "context", "failed to unmarshal counter").Wrap(err)
	}
	return &counter, nil
}

func decode(data []byte, channelID int64) (*domain.Counter, error) {
	if data == nil {
		return &domain.Counter{ChannelID: channelID}, nil
	}

	var counter domain.Counter
	if err := json.Unmarshal(data, &counter); err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to unmarshal counter").Wrap(err)
	}
	return &counter, nil
}
