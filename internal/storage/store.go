package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/samber/oops"
)

// Store is a file-backed collection store. Each record is a JSON document at
// <basePath>/<collection>/<key>.json. Writes are durable before they return:
// the record is written to a temp file, synced, then renamed into place.
type Store struct {
	basePath string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store rooted at basePath.
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	return &Store{
		basePath: basePath,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// keyLock returns the mutex serializing updates for one (collection, key) pair.
// Different keys get different mutexes, so they never block each other.
func (s *Store) keyLock(collection, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := collection + "/" + key
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) recordPath(collection, key string) string {
	return filepath.Join(s.basePath, collection, key+".json")
}

// Get returns the raw record for key, or ErrNotFound.
func (s *Store) Get(collection, key string) ([]byte, error) {
	data, err := os.ReadFile(s.recordPath(collection, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oops.With("collection", collection, "key", key).Wrap(apperrors.ErrNotFound)
		}
		return nil, unavailable(collection, key, err)
	}
	return data, nil
}

// Put writes the record durably before returning.
func (s *Store) Put(collection, key string, data []byte) error {
	if err := s.write(collection, key, data); err != nil {
		return unavailable(collection, key, err)
	}
	return nil
}

// Delete removes the record and reports whether it existed.
func (s *Store) Delete(collection, key string) (bool, error) {
	err := os.Remove(s.recordPath(collection, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, unavailable(collection, key, err)
	}
	return true, nil
}

// List returns a snapshot of every record in the collection, ordered by key.
// A collection with no records yet is an empty list, not an error.
func (s *Store) List(collection string) ([][]byte, error) {
	dir := filepath.Join(s.basePath, collection)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, unavailable(collection, "", err)
	}

	var records [][]byte
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, unavailable(collection, entry.Name(), err)
		}
		records = append(records, data)
	}

	return records, nil
}

// AtomicUpdate runs a serialized read-modify-write for one key. fn receives nil
// when the record does not exist yet and returns the record to write back.
func (s *Store) AtomicUpdate(collection, key string, fn func(current []byte) ([]byte, error)) error {
	l := s.keyLock(collection, key)
	l.Lock()
	defer l.Unlock()

	current, err := s.Get(collection, key)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return s.Put(collection, key, next)
}

// AtomicUpdateMulti runs a serialized read-modify-write spanning several keys
// of one collection. Locks are taken in sorted key order. fn receives the
// current records keyed by key (absent keys are missing from the map) and
// returns the records to write back.
func (s *Store) AtomicUpdateMulti(collection string, keys []string, fn func(current map[string][]byte) (map[string][]byte, error)) error {
	ordered := append([]string(nil), keys...)
	sort.Strings(ordered)
	ordered = dedupe(ordered)

	for _, key := range ordered {
		l := s.keyLock(collection, key)
		l.Lock()
		defer l.Unlock()
	}

	current := make(map[string][]byte, len(ordered))
	for _, key := range ordered {
		data, err := s.Get(collection, key)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return err
		}
		current[key] = data
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	for key, data := range next {
		if err := s.Put(collection, key, data); err != nil {
			return err
		}
	}
	return nil
}

// Ping reports whether the underlying storage directory is reachable.
func (s *Store) Ping() error {
	if _, err := os.Stat(s.basePath); err != nil {
		return unavailable("", "", err)
	}
	return nil
}

func (s *Store) write(collection, key string, data []byte) error {
	dir := filepath.Join(s.basePath, collection)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(dir, key+".json"))
}

func unavailable(collection, key string, cause error) error {
	return oops.With("collection", collection, "key", key).Wrap(errors.Join(apperrors.ErrStorageUnavailable, cause))
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, k := range sorted {
		if i == 0 || sorted[i-1] != k {
			out = append(out, k)
		}
	}
	return out
}
