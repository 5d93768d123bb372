package repository

import (
	"encoding/json"
	"strconv"

	"github.com/mraprguild/guardbot/internal/modules/admin/domain"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const collection = "admins"

// StoreStorage implements admin.Repository over the collection store
type StoreStorage struct {
	store *storage.Store
}

// NewStoreStorage creates a store-backed admin repository
func NewStoreStorage(store *storage.Store) Repository {
	return &StoreStorage{store: store}
}

func (s *StoreStorage) SaveAdmin(admin *domain.Admin) error {
	data, err := json.MarshalIndent(admin, "", "  ")
	if err != nil {
		return oops.With("user_id", admin.UserID, "context", "failed to marshal admin").Wrap(err)
	}
	return s.store.Put(collection, key(admin.UserID), data)
}

func (s *StoreStorage) GetAdmin(userID int64) (*domain.Admin, error) {
	data, err := s.store.Get(collection, key(userID))
	if err != nil {
		return nil, err
	}

	var admin domain.Admin
	if err := json.Unmarshal(data, &admin); err != nil {
		return nil, oops.With("user_id", userID, "context", "failed to unmarshal admin").Wrap(err)
	}
	return &admin, nil
}

func (s *StoreStorage) GetAllAdmins() ([]*domain.Admin, error) {
	records, err := s.store.List(collection)
	if err != nil {
		return nil, err
	}

	admins := lo.FilterMap(records, func(data []byte, _ int) (*domain.Admin, bool) {
		var admin domain.Admin
		if err := json.Unmarshal(data, &admin); err != nil {
			return nil, false
		}
		return &admin, true
	})

	return admins, nil
}

func (s *StoreStorage) DeleteAdmin(userID int64) (bool, error) {
	return s.store.Delete(collection, key(userID))
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
