package repository

import (
	"encoding/json"
	"strconv"

	"github.com/mraprguild/guardbot/internal/modules/channel/domain"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const collection = "channels"

// StoreStorage implements channel.Repository over the collection store
type StoreStorage struct {
	store *storage.Store
}

// NewStoreStorage creates a store-backed channel repository
func NewStoreStorage(store *storage.Store) Repository {
	return &StoreStorage{store: store}
}

func (s *StoreStorage) SaveChannel(channel *domain.Channel) error {
	data, err := json.MarshalIndent(channel, "", "  ")
	if err != nil {
		return oops.With("channel_id", channel.ChannelID, "context", "failed to marshal channel").Wrap(err)
	}
	return s.store.Put(collection, strconv.FormatInt(channel.ChannelID, 10), data)
}

func (s *StoreStorage) GetChannel(channelID int64) (*domain.Channel, error) {
	data, err := s.store.Get(collection, strconv.FormatInt(channelID, 10))
	if err != nil {
		return nil, err
	}

	var channel domain.Channel
	if err := json.Unmarshal(data, &channel); err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to unmarshal channel").Wrap(err)
	}
	return &channel, nil
}

func (s *StoreStorage) GetAllChannels() ([]*domain.Channel, error) {
	records, err := s.store.List(collection)
	if err != nil {
		return nil, err
	}

	channels := lo.FilterMap(records, func(data []byte, _ int) (*domain.Channel, bool) {
		var channel domain.Channel
		if err := json.Unmarshal(data, &channel); err != nil {
			return nil, false
		}
		return &channel, true
	})

	return channels, nil
}
