// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/marquee/schema"
)

// Clock supplies the current time. Cache keys, report names and the ranking
// window all derive from it so tests can pin a date.
type Clock interface {
	Now() time.Time
}

// DatasetFetcher resolves a dataset to a local file, downloading it when needed.
// Unknown dataset names report ok=false with a nil error.
type DatasetFetcher interface {
	Fetch(ctx context.Context, name schema.DatasetName) (path string, ok bool, err error)
}

// Searcher queries the social-media API for posts about an actor.
// Authenticate must succeed once before any Search call.
type Searcher interface {
	Authenticate(ctx context.Context) error
	Search(ctx context.Context, displayName string) ([]schema.Post, error)
}

// ReportWriter persists result tables as timestamped files and returns their paths.
type ReportWriter interface {
	WriteRanking(actors []schema.RankedActor) (string, error)
	WritePosts(actorName string, posts []schema.Post) (string, error)
}

// HistoryManager defines the interface for managing the run history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking report runs.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (string, error)

	// RecordActors stores the ranking produced by a run
	RecordActors(runID string, actors []schema.RankedActor) error

	// RecordSearch stores the outcome of a single actor search
	RecordSearch(runID string, rec schema.SearchRecord) error

	// EndRun marks the run as finished
	EndRun(runID string, endTime time.Time, status schema.RunStatus, totalActors int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRankedActors retrieves every ranking row
	GetAllRankedActors() ([]schema.RankedActorRecord, error)

	// GetAllSearches retrieves every search outcome
	GetAllSearches() ([]schema.SearchRecord, error)

	// Close closes the underlying connection
	Close() error
}
