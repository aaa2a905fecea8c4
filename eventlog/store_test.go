package eventlog

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sky-flux/mastery"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreImportAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	events := []mastery.Event{
		{LearnerID: 2, Time: 1, Response: 0, Censored: true, Active: true},
		{LearnerID: 1, Time: 0, Response: 1, State: 1, Active: true},
		{LearnerID: 2, Time: 0, Response: 1, Active: true},
		{LearnerID: 3, Time: 0, Response: 0, Active: false},
	}
	b, err := s.ImportEvents(ctx, "sample.csv", events)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "sample.csv", b.Source)
	assert.Equal(t, 4, b.Events)

	got, err := s.LoadEvents(ctx, b.ID)
	require.NoError(t, err)
	want := []mastery.Event{events[1], events[2], events[0], events[3]}
	assert.Equal(t, want, got)
}

func TestStoreBatchesAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.ImportEvents(ctx, "a", []mastery.Event{{LearnerID: 1, Active: true}})
	require.NoError(t, err)
	second, err := s.ImportEvents(ctx, "b", []mastery.Event{{LearnerID: 2, Active: true}, {LearnerID: 2, Time: 1, Active: true}})
	require.NoError(t, err)

	batches, err := s.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, first.ID, batches[0].ID)
	assert.Equal(t, second.ID, batches[1].ID)

	latest, err := s.LatestBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 2, latest.Events)

	got, err := s.LoadEvents(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStoreUnknownBatch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.LoadEvents(ctx, "missing")
	assert.ErrorIs(t, err, ErrBatchNotFound)

	_, err = s.LatestBatch(ctx)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.db")

	s, err := OpenStore(ctx, path)
	require.NoError(t, err)
	b, err := s.ImportEvents(ctx, "x", mastery.Simulate(
		mastery.Theta{G: 0.2, S: 0.1, Pi: 0.4, L: 0.3, H0: 0.3, H1: 0.2},
		mastery.SimulationConfig{Learners: 20}, rand.NewPCG(1, 1)))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.LoadEvents(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got, b.Events)
}

func TestOpenStoreRequiresPath(t *testing.T) {
	_, err := OpenStore(context.Background(), "")
	assert.Error(t, err)
}
