package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), ".robomend", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "audit.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(Entry{
		OperationID: "op-1",
		Robot:       "bot",
		Kind:        KindRename,
		Detail:      "1 names renamed",
		Count:       3,
	}))
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{OperationID: "op-1", Robot: "arm", Kind: KindRename, Detail: "renamed 2", Count: 6, CreatedAt: base},
		{OperationID: "op-2", Robot: "rover", Kind: KindRemoveLinks, Detail: "removed 3 links", Count: 3, CreatedAt: base.Add(time.Minute)},
		{OperationID: "op-3", Robot: "arm", Kind: KindRemoveLinks, Detail: "removed 1 link", Count: 1, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(e))
	}

	t.Run("all robots newest first", func(t *testing.T) {
		got, err := store.Recent("", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "op-3", got[0].OperationID)
		assert.Equal(t, "op-1", got[2].OperationID)
	})

	t.Run("filtered by robot", func(t *testing.T) {
		got, err := store.Recent("arm", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, e := range got {
			assert.Equal(t, "arm", e.Robot)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		got, err := store.Recent("", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "op-3", got[0].OperationID)
	})

	t.Run("zero limit defaults", func(t *testing.T) {
		got, err := store.Recent("", 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestRecordFillsCreatedAt(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Record(Entry{
		OperationID: "op-now",
		Robot:       "bot",
		Kind:        KindRename,
		Detail:      "renamed 1",
		Count:       1,
	}))

	got, err := store.Recent("bot", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestRecordDuplicateOperationID(t *testing.T) {
	store := openTestStore(t)

	e := Entry{OperationID: "op-dup", Robot: "bot", Kind: KindRename, Detail: "x", Count: 1}
	require.NoError(t, store.Record(e))
	assert.Error(t, store.Record(e))
}
