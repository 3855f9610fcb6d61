package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"vibewire/domain/state"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(recipientID string, now time.Time) *state.State {
	current := make(map[vibe.Dimension]int, len(vibe.Dimensions))
	for _, d := range vibe.Dimensions {
		current[d] = 50
	}
	return &state.State{
		RecipientID: recipientID,
		Current:     current,
		History:     []state.HistoryEntry{},
		UpdatedAt:   now,
	}
}

func TestStateStore_Load_UnknownRecipient(t *testing.T) {
	store := NewStateStore()

	st, err := store.Load(context.Background(), "nobody")

	assert.Nil(t, st)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStateStore_SaveAndLoad_RoundTrip(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()
	now := time.Now().UTC()

	st := newTestState("recipient-1", now)
	st.Current[vibe.DimensionWarmth] = 72

	require.NoError(t, store.Save(ctx, st))
	assert.Equal(t, int64(1), st.Version, "save bumps the caller's version")

	loaded, err := store.Load(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, 72, loaded.Current[vibe.DimensionWarmth])
	assert.Equal(t, int64(1), loaded.Version)
}

func TestStateStore_Load_ReturnsIndependentCopy(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	st := newTestState("recipient-1", time.Now().UTC())
	require.NoError(t, store.Save(ctx, st))

	first, err := store.Load(ctx, "recipient-1")
	require.NoError(t, err)
	first.Current[vibe.DimensionStress] = 99

	second, err := store.Load(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, 50, second.Current[vibe.DimensionStress])
}

func TestStateStore_Save_StaleVersionConflicts(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, newTestState("recipient-1", now)))

	stale := newTestState("recipient-1", now)
	stale.Version = 0

	err := store.Save(ctx, stale)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestStateStore_Save_SequentialVersions(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	st := newTestState("recipient-1", time.Now().UTC())
	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Save(ctx, st))
		assert.Equal(t, int64(i), st.Version)
	}
}

func TestStateStore_History_SinceFilter(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	st := newTestState("recipient-1", base)
	for i := 0; i < 4; i++ {
		st.History = append(st.History, state.HistoryEntry{
			Timestamp: base.Add(time.Duration(i) * 10 * time.Minute),
		})
		require.NoError(t, store.Save(ctx, st))
	}

	entries, err := store.History(ctx, "recipient-1", base.Add(15*time.Minute))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
}

func TestStateStore_History_UnknownRecipient(t *testing.T) {
	store := NewStateStore()

	entries, err := store.History(context.Background(), "nobody", time.Time{})

	assert.Nil(t, entries)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStateStore_ConcurrentWritersOnlyOneWinsPerVersion(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, newTestState("recipient-1", now)))

	const writers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	conflicts := 0

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := store.Load(ctx, "recipient-1")
			if err != nil {
				return
			}
			if err := store.Save(ctx, st); pkgerrors.IsConflict(err) {
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, err := store.Load(ctx, "recipient-1")
	require.NoError(t, err)

	// Every successful write bumped the version exactly once
	assert.Equal(t, int64(1+writers-conflicts), final.Version)
}
