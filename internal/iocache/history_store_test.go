package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var historyNow = time.Date(2024, time.January, 31, 12, 0, 0, 123456789, time.UTC)

func newSQLiteStore(t *testing.T) contract.HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var historyActors = []schema.RankedActor{
	{Rank: 1, PersonID: "nm1", Participations: 5, PrimaryName: "Alice Able"},
	{Rank: 2, PersonID: "nm2", Participations: 3, PrimaryName: "Bob Baker"},
}

func recordRun(t *testing.T, store contract.HistoryStore, start time.Time) string {
	t.Helper()
	runID, err := store.BeginRun(start, map[string]any{"limit": 10, "years": 10})
	require.NoError(t, err)
	require.NoError(t, store.RecordActors(runID, historyActors))

	path := "reports/20240131120000-AliceAble.csv"
	require.NoError(t, store.RecordSearch(runID, schema.SearchRecord{
		PersonID: "nm1", Query: "(Alice Able)", PostCount: 2, ReportPath: &path, SearchedAt: start.Add(time.Second),
	}))
	require.NoError(t, store.RecordSearch(runID, schema.SearchRecord{
		PersonID: "nm2", Query: "(Bob Baker)", SearchedAt: start.Add(2 * time.Second),
	}))
	require.NoError(t, store.EndRun(runID, start.Add(3*time.Second), schema.CompletedStatus, len(historyActors)))
	return runID
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(historyNow, map[string]any{"limit": 10})
	assert.NoError(t, err)
	assert.Empty(t, runID)
	assert.NoError(t, store.RecordActors("x", historyActors))
	assert.NoError(t, store.RecordSearch("x", schema.SearchRecord{}))
	assert.NoError(t, store.EndRun("x", historyNow, schema.CompletedStatus, 1))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)
	assert.NoError(t, store.Close())
}

func TestHistoryStore_SQLiteRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	runID := recordRun(t, store, historyNow)
	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, historyNow.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, historyNow.Add(3*time.Second).Equal(*run.EndTime))
	assert.Equal(t, schema.CompletedStatus, run.Status)
	assert.Equal(t, 2, run.TotalActors)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"limit":10,"years":10}`, *run.ConfigParams)

	actors, err := store.GetAllRankedActors()
	require.NoError(t, err)
	assert.Equal(t, []schema.RankedActorRecord{
		{RunID: runID, Rank: 1, PersonID: "nm1", Participations: 5, PrimaryName: "Alice Able"},
		{RunID: runID, Rank: 2, PersonID: "nm2", Participations: 3, PrimaryName: "Bob Baker"},
	}, actors)

	searches, err := store.GetAllSearches()
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "nm1", searches[0].PersonID)
	require.NotNil(t, searches[0].ReportPath)
	assert.Equal(t, "reports/20240131120000-AliceAble.csv", *searches[0].ReportPath)
	assert.Nil(t, searches[1].ReportPath)
	assert.Equal(t, 0, searches[1].PostCount)
}

func TestHistoryStore_Status(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, uint(3), status.SchemaVersion)
	assert.False(t, status.SchemaDirty)

	first := recordRun(t, store, historyNow.Add(-time.Hour))
	second := recordRun(t, store, historyNow)
	require.NotEqual(t, first, second)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.True(t, historyNow.Equal(status.LastRunTime))
	assert.True(t, historyNow.Add(-time.Hour).Equal(status.OldestRunTime))
	assert.Equal(t, 4, status.TotalActors)
	assert.Equal(t, 4, status.TotalSearches)
	assert.Equal(t, map[string]int64{runsTable: 2, rankedActorsTable: 4, searchesTable: 4}, status.TableSizes)
}

func TestHistoryStore_FailedRun(t *testing.T) {
	store := newSQLiteStore(t)
	runID, err := store.BeginRun(historyNow, nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.RunningStatus, runs[0].Status)
	assert.Nil(t, runs[0].EndTime)

	require.NoError(t, store.EndRun(runID, historyNow, schema.FailedStatus, 0))
	runs, err = store.GetAllRuns()
	require.NoError(t, err)
	assert.Equal(t, schema.FailedStatus, runs[0].Status)
}

func TestHistoryStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.EndRun("missing", historyNow, schema.CompletedStatus, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryStore_DuplicateActorRollsBack(t *testing.T) {
	store := newSQLiteStore(t)
	runID, err := store.BeginRun(historyNow, nil)
	require.NoError(t, err)

	dup := []schema.RankedActor{historyActors[0], historyActors[0]}
	require.Error(t, store.RecordActors(runID, dup))

	actors, err := store.GetAllRankedActors()
	require.NoError(t, err)
	assert.Empty(t, actors)
}

func TestHistoryStore_InMemory(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	recordRun(t, store, historyNow)
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}
