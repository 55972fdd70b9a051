package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	sess := New(42)

	assert.Equal(t, int64(42), sess.UserID)
	assert.InDelta(t, DefaultTemperature, sess.Temperature(), 1e-9)
	assert.Equal(t, DefaultMaxTokens, sess.MaxTokens())
	assert.Empty(t, sess.ChatAPIKey())
	assert.Empty(t, sess.ImageAPIKey())
	assert.Zero(t, sess.HistoryLen())
}

func TestSetTemperatureBounds(t *testing.T) {
	sess := New(1)

	require.NoError(t, sess.SetTemperature(0.0))
	require.NoError(t, sess.SetTemperature(1.0))
	require.NoError(t, sess.SetTemperature(0.7))

	assert.Error(t, sess.SetTemperature(-0.01))
	assert.Error(t, sess.SetTemperature(1.01))
	// rejected values leave the last valid one in place
	assert.InDelta(t, 0.7, sess.Temperature(), 1e-9)
}

func TestSetMaxTokensBounds(t *testing.T) {
	sess := New(1)

	require.NoError(t, sess.SetMaxTokens(100))
	require.NoError(t, sess.SetMaxTokens(4096))
	require.NoError(t, sess.SetMaxTokens(2048))

	assert.Error(t, sess.SetMaxTokens(99))
	assert.Error(t, sess.SetMaxTokens(4097))
	assert.Equal(t, 2048, sess.MaxTokens())
}

func TestHistoryOrderAndSnapshot(t *testing.T) {
	sess := New(1)
	sess.AppendHistory(RoleUser, "first")
	sess.AppendHistory(RoleAssistant, "second")
	sess.AppendHistory(RoleUser, "third")

	history := sess.History()
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "third", history[2].Content)

	// mutating the snapshot does not touch the session
	history[0].Content = "changed"
	assert.Equal(t, "first", sess.History()[0].Content)
}

func TestClearHistory(t *testing.T) {
	sess := New(1)
	sess.AppendHistory(RoleUser, "hi")
	sess.ClearHistory()

	assert.Zero(t, sess.HistoryLen())
	assert.Empty(t, sess.History())
}

func TestStoreGetOrCreateIsStable(t *testing.T) {
	store := NewStore()

	a := store.GetOrCreate(42)
	b := store.GetOrCreate(42)
	assert.Same(t, a, b)

	c := store.GetOrCreate(43)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, store.Len())
}

func TestStoreGet(t *testing.T) {
	store := NewStore()

	_, ok := store.Get(42)
	assert.False(t, ok)

	created := store.GetOrCreate(42)
	got, ok := store.Get(42)
	require.True(t, ok)
	assert.Same(t, created, got)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sess := store.GetOrCreate(id % 3)
			sess.AppendHistory(RoleUser, fmt.Sprintf("msg-%d", id))
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 3, store.Len())
	total := 0
	for id := int64(0); id < 3; id++ {
		sess, ok := store.Get(id)
		require.True(t, ok)
		total += sess.HistoryLen()
	}
	assert.Equal(t, 10, total)
}
