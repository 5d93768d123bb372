package repository

import (
	"encoding/json"

	"github.com/mraprguild/guardbot/internal/modules/settings/domain"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/samber/oops"
)

const (
	collection = "settings"
	welcomeKey = "welcome"
)

// StoreStorage implements settings.Repository over the collection store
type StoreStorage struct {
	store *storage.Store
}

// NewStoreStorage creates a store-backed settings repository
func NewStoreStorage(store *storage.Store) Repository {
	return &StoreStorage{store: store}
}

func (s *StoreStorage) SaveWelcome(welcome *domain.Welcome) error {
	data, err := json.MarshalIndent(welcome, "", "  ")
	if err != nil {
		return oops.With("context", "failed to marshal welcome settings").Wrap(err)
	}
	return s.store.Put(collection, welcomeKey, data)
}

func (s *StoreStorage) GetWelcome() (*domain.Welcome, error) {
	data, err := s.store.Get(collection, welcomeKey)
	if err != nil {
		return nil, err
	}

	var welcome domain.Welcome
	if err := json.Unmarshal(data, &welcome); err != nil {
		return nil, oops.With("context", "failed to unmarshal welcome settings").Wrap(err)
	}
	return &welcome, nil
}
