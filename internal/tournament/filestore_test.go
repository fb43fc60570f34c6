package tournament

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "major.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	snap := Snapshot{
		ID:          "major",
		Status:      InProgress,
		Level:       3,
		HandsPlayed: 41,
		Players: []PlayerState{
			{PlayerID: "alice", Chips: 5200},
			{PlayerID: "bob", Chips: 0, Eliminated: true},
		},
		SavedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveTournament(snap))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestFileStoreKeepsLatestOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SaveTournament(Snapshot{ID: "t", HandsPlayed: 1}))
	require.NoError(t, store.SaveTournament(Snapshot{ID: "t", HandsPlayed: 2}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, got.HandsPlayed)
}

func TestFileStoreWritesReadableStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveTournament(Snapshot{ID: "t", Status: Finished}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Status": "finished"`)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	_, err = store.Load()
	assert.True(t, os.IsNotExist(err))
}

func TestStatusTextRoundTrip(t *testing.T) {
	for _, status := range []Status{Registering, InProgress, Finished} {
		text, err := status.MarshalText()
		require.NoError(t, err)

		var back Status
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, status, back)
	}

	var s Status
	assert.Error(t, s.UnmarshalText([]byte("paused")))
}

func TestSnapshotJSONUsesStatusNames(t *testing.T) {
	data, err := json.Marshal(Snapshot{Status: InProgress})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"in_progress"`)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, InProgress, snap.Status)
}
