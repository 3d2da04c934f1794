package schema

import "time"

// CachedDataset describes one downloaded dump in the data directory.
type CachedDataset struct {
	Path      string    `json:"path"`
	Dataset   string    `json:"dataset"`
	Date      time.Time `json:"date"`
	SizeBytes int64     `json:"size_bytes"`
	Current   bool      `json:"current"` // downloaded on the clock's current day
}

// CacheStatus represents the status of the dataset cache directory.
type CacheStatus struct {
	Dir          string          `json:"dir"`
	TotalFiles   int             `json:"total_files"`
	CurrentFiles int             `json:"current_files"`
	StaleFiles   int             `json:"stale_files"`
	TotalBytes   int64           `json:"total_bytes"`
	Entries      []CachedDataset `json:"entries"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalActors   int              `json:"total_actors"`
	TotalSearches int              `json:"total_searches"`
	TableSizes    map[string]int64 `json:"table_sizes"`
	SchemaVersion uint             `json:"schema_version"`
	SchemaDirty   bool             `json:"schema_dirty"`
}

// RunRecord represents a row from the marquee_runs table.
type RunRecord struct {
	RunID        string
	StartTime    time.Time
	EndTime      *time.Time
	Status       RunStatus
	TotalActors  int
	ConfigParams *string
}

// RankedActorRecord represents a row from the marquee_ranked_actors table.
type RankedActorRecord struct {
	RunID          string
	Rank           int
	PersonID       string
	Participations int
	PrimaryName    string
}

// SearchRecord represents a row from the marquee_searches table.
type SearchRecord struct {
	RunID      string
	PersonID   string
	Query      string
	PostCount  int
	ReportPath *string
	SearchedAt time.Time
}

// DatasetInfo describes a published dataset and today's cache location.
type DatasetInfo struct {
	Name      DatasetName `json:"name"`
	URL       string      `json:"url"`
	CachePath string      `json:"cache_path"`
	Cached    bool        `json:"cached"`
}
