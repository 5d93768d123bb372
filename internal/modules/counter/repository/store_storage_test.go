package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) Repository {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewStoreStorage(store)
}

func TestRecordMessage_Allowed(t *testing.T) {
	repo := newRepository(t)

	require.NoError(t, repo.RecordMessage(100, false, time.Now()))

	counter, err := repo.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(0), counter.TotalBlocked)
	assert.Nil(t, counter.LastBlockedAt)

	global, err := repo.GetGlobalCounter()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), global.TotalMessagesSeen)
	assert.Equal(t, uint64(0), global.TotalBlocked)
}

func TestRecordMessage_Blocked(t *testing.T) {
	repo := newRepository(t)

	at := time.Now().Truncate(time.Second)
	require.NoError(t, repo.RecordMessage(100, true, at))

	counter, err := repo.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(1), counter.TotalBlocked)
	require.NotNil(t, counter.LastBlockedAt)
	assert.True(t, counter.LastBlockedAt.Equal(at))

	global, err := repo.GetGlobalCounter()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), global.TotalBlocked)
}

func TestGetCounter_UnknownChannelIsZero(t *testing.T) {
	repo := newRepository(t)

	counter, err := repo.GetCounter(404)
	require.NoError(t, err)
	assert.Equal(t, int64(404), counter.ChannelID)
	assert.Equal(t, uint64(0), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(0), counter.TotalBlocked)
}

func TestGetChannelCounters_ExcludesGlobal(t *testing.T) {
	repo := newRepository(t)

	require.NoError(t, repo.RecordMessage(100, false, time.Now()))
	require.NoError(t, repo.RecordMessage(200, true, time.Now()))

	counters, err := repo.GetChannelCounters()
	require.NoError(t, err)
	require.Len(t, counters, 2)
	for _, counter := range counters {
		assert.NotZero(t, counter.ChannelID)
	}
}

func TestRecordMessage_ConcurrentNoLostIncrements(t *testing.T) {
	repo := newRepository(t)

	const workers = 8
	const perWorker = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				assert.NoError(t, repo.RecordMessage(100, j%2 == 0, time.Now()))
			}
		}()
	}
	wg.Wait()

	counter, err := repo.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*perWorker), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(workers*perWorker/2), counter.TotalBlocked)

	global, err := repo.GetGlobalCounter()
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*perWorker), global.TotalMessagesSeen)
}
