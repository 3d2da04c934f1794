// Package parquet provides data structures and functions for exporting marquee
// rankings and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/marquee/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single report run with metadata.
// This struct maps to the marquee_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run finished (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// Status is running, completed or failed
	Status string `parquet:"status,snappy"`

	// TotalActors is the number of ranked actors produced by the run
	TotalActors int32 `parquet:"total_actors,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RankedActor is one ranking row, optionally tied to a run.
// This struct maps to the marquee_ranked_actors database table.
type RankedActor struct {
	RunID          string `parquet:"run_id,snappy"`
	Rank           int32  `parquet:"rank,snappy"`
	PersonID       string `parquet:"nconst,snappy"`
	Participations int32  `parquet:"participations,snappy"`
	PrimaryName    string `parquet:"primary_name,snappy"`
}

// Search is the outcome of one actor search.
// This struct maps to the marquee_searches database table.
type Search struct {
	RunID      string    `parquet:"run_id,snappy"`
	PersonID   string    `parquet:"nconst,snappy"`
	Query      string    `parquet:"query,snappy"`
	PostCount  int32     `parquet:"post_count,snappy"`
	ReportPath *string   `parquet:"report_path,optional,snappy"`
	SearchedAt time.Time `parquet:"searched_at,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRankedActorsParquet writes a slice of RankedActor structs to a Parquet file.
func WriteRankedActorsParquet(data []RankedActor, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSearchesParquet writes a slice of Search structs to a Parquet file.
func WriteSearchesParquet(data []Search, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			Status:       string(record.Status),
			TotalActors:  int32(record.TotalActors),
			ConfigParams: record.ConfigParams,
		}
		if record.EndTime != nil {
			ms := record.EndTime.Sub(record.StartTime).Milliseconds()
			result[i].RunDurationMs = &ms
		}
	}
	return result
}

// ConvertRankedActorRecords converts schema.RankedActorRecord to RankedActor for Parquet export.
func ConvertRankedActorRecords(records []schema.RankedActorRecord) []RankedActor {
	result := make([]RankedActor, len(records))
	for i, record := range records {
		result[i] = RankedActor{
			RunID:          record.RunID,
			Rank:           int32(record.Rank),
			PersonID:       record.PersonID,
			Participations: int32(record.Participations),
			PrimaryName:    record.PrimaryName,
		}
	}
	return result
}

// ConvertRankedActors converts a fresh ranking, which has no run yet.
func ConvertRankedActors(actors []schema.RankedActor) []RankedActor {
	result := make([]RankedActor, len(actors))
	for i, a := range actors {
		result[i] = RankedActor{
			Rank:           int32(a.Rank),
			PersonID:       a.PersonID,
			Participations: int32(a.Participations),
			PrimaryName:    a.PrimaryName,
		}
	}
	return result
}

// ConvertSearchRecords converts schema.SearchRecord to Search for Parquet export.
func ConvertSearchRecords(records []schema.SearchRecord) []Search {
	result := make([]Search, len(records))
	for i, record := range records {
		result[i] = Search{
			RunID:      record.RunID,
			PersonID:   record.PersonID,
			Query:      record.Query,
			PostCount:  int32(record.PostCount),
			ReportPath: record.ReportPath,
			SearchedAt: record.SearchedAt,
		}
	}
	return result
}
