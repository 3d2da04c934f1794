package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	newID   func() string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is migrated to the latest version before the store is returned.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend, newID: uuid.NewString}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &HistoryStoreImpl{db: db, backend: backend, newID: uuid.NewString}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

func (hs *HistoryStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (string, error) {
	if hs.disabled() {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := hs.newID()
	query := rebind(fmt.Sprintf(`INSERT INTO %s (run_id, start_time, status, total_actors, config_params) VALUES (?, ?, ?, ?, ?)`,
		hs.table(runsTable)), hs.backend)
	if _, err := hs.db.Exec(query, runID, formatTime(startTime, hs.backend), string(schema.RunningStatus), 0, string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordActors stores the ranking of a run in one transaction.
func (hs *HistoryStoreImpl) RecordActors(runID string, actors []schema.RankedActor) error {
	if hs.disabled() || len(actors) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	query := rebind(fmt.Sprintf(`INSERT INTO %s (run_id, actor_rank, nconst, participations, primary_name) VALUES (?, ?, ?, ?, ?)`,
		hs.table(rankedActorsTable)), hs.backend)
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare ranked actor insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range actors {
		if _, err := stmt.Exec(runID, a.Rank, a.PersonID, a.Participations, a.PrimaryName); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert ranked actor %s: %w", a.PersonID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranked actors: %w", err)
	}
	return nil
}

// RecordSearch stores the outcome of a single actor search.
func (hs *HistoryStoreImpl) RecordSearch(runID string, rec schema.SearchRecord) error {
	if hs.disabled() {
		return nil
	}
	query := rebind(fmt.Sprintf(`INSERT INTO %s (run_id, nconst, query, post_count, report_path, searched_at) VALUES (?, ?, ?, ?, ?, ?)`,
		hs.table(searchesTable)), hs.backend)
	_, err := hs.db.Exec(query, runID, rec.PersonID, rec.Query, rec.PostCount, rec.ReportPath, formatTime(rec.SearchedAt, hs.backend))
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}
	return nil
}

// EndRun marks the run as finished with its final status.
func (hs *HistoryStoreImpl) EndRun(runID string, endTime time.Time, status schema.RunStatus, totalActors int) error {
	if hs.disabled() {
		return nil
	}
	query := rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, status = ?, total_actors = ? WHERE run_id = ?`,
		hs.table(runsTable)), hs.backend)
	res, err := hs.db.Exec(query, formatTime(endTime, hs.backend), string(status), totalActors, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	for _, table := range historyTables {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[runsTable])
	status.TotalActors = int(status.TableSizes[rankedActorsTable])
	status.TotalSearches = int(status.TableSizes[searchesTable])

	if status.TotalRuns > 0 {
		var last, oldest dbTime
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", hs.table(runsTable)))
		if err := row.Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", hs.table(runsTable)))
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = last.Time
		status.OldestRunTime = oldest.Time
	}

	var version int64
	var dirty bool
	row := hs.db.QueryRow(fmt.Sprintf("SELECT version, dirty FROM %s LIMIT 1", hs.table(migrationsTable)))
	switch err := row.Scan(&version, &dirty); {
	case err == nil:
		status.SchemaVersion = uint(version)
		status.SchemaDirty = dirty
	case errors.Is(err, sql.ErrNoRows):
	default:
		return status, fmt.Errorf("failed to get schema version: %w", err)
	}
	return status, nil
}

// GetAllRuns retrieves all runs ordered by start time.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT run_id, start_time, end_time, status, total_actors, config_params FROM %s ORDER BY start_time, run_id",
		hs.table(runsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end dbTime
		var status string
		if err := rows.Scan(&record.RunID, &start, &end, &status, &record.TotalActors, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.Time
		record.EndTime = end.ptr()
		record.Status = schema.RunStatus(status)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRankedActors retrieves all ranking rows ordered by run and rank.
func (hs *HistoryStoreImpl) GetAllRankedActors() ([]schema.RankedActorRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT run_id, actor_rank, nconst, participations, primary_name FROM %s ORDER BY run_id, actor_rank",
		hs.table(rankedActorsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranked actors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RankedActorRecord
	for rows.Next() {
		var record schema.RankedActorRecord
		if err := rows.Scan(&record.RunID, &record.Rank, &record.PersonID, &record.Participations, &record.PrimaryName); err != nil {
			return nil, fmt.Errorf("failed to scan ranked actor: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranked actors: %w", err)
	}
	return results, nil
}

// GetAllSearches retrieves all search outcomes ordered by time.
func (hs *HistoryStoreImpl) GetAllSearches() ([]schema.SearchRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT run_id, nconst, query, post_count, report_path, searched_at FROM %s ORDER BY searched_at, run_id, nconst",
		hs.table(searchesTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SearchRecord
	for rows.Next() {
		var record schema.SearchRecord
		var at dbTime
		if err := rows.Scan(&record.RunID, &record.PersonID, &record.Query, &record.PostCount, &record.ReportPath, &at); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		record.SearchedAt = at.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating searches: %w", err)
	}
	return results, nil
}
