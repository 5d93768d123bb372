package repository

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mraprguild/guardbot/internal/modules/keyword/domain"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const collection = "keywords"

// StoreStorage implements keyword.Repository over the collection store.
// Keys are zero-padded sequence numbers so the store's key-ordered listing
// is also insertion order.
type StoreStorage struct {
	store *storage.Store
}

// NewStoreStorage creates a store-backed keyword repository
func NewStoreStorage(store *storage.Store) Repository {
	return &StoreStorage{store: store}
}

func (s *StoreStorage) SaveRule(rule *domain.KeywordRule) error {
	data, err := json.MarshalIndent(rule, "", "  ")
	if err != nil {
		return oops.With("pattern", rule.Pattern, "context", "failed to marshal keyword rule").Wrap(err)
	}
	return s.store.Put(collection, key(rule.Seq), data)
}

func (s *StoreStorage) GetAllRules() ([]*domain.KeywordRule, error) {
	records, err := s.store.List(collection)
	if err != nil {
		return nil, err
	}

	rules := lo.FilterMap(records, func(data []byte, _ int) (*domain.KeywordRule, bool) {
		var rule domain.KeywordRule
		if err := json.Unmarshal(data, &rule); err != nil {
			return nil, false
		}
		return &rule, true
	})

	sort.Slice(rules, func(i, j int) bool { return rules[i].Seq < rules[j].Seq })
	return rules, nil
}

func (s *StoreStorage) DeleteRule(seq uint64) (bool, error) {
	return s.store.Delete(collection, key(seq))
}

func key(seq uint64) string {
	return fmt.Sprintf("%012d", seq)
}
