package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrintCacheStatus(t *testing.T) {
	status := schema.CacheStatus{
		Dir:          "data",
		TotalFiles:   2,
		CurrentFiles: 1,
		StaleFiles:   1,
		TotalBytes:   3 * 1024 * 1024,
		Entries: []schema.CachedDataset{
			{Dataset: "title.basics", Date: reportNow, SizeBytes: 2 * 1024 * 1024, Current: true},
			{Dataset: "name.basics", Date: reportNow.AddDate(0, 0, -1), SizeBytes: 1024 * 1024},
		},
	}
	out := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, PrintCacheStatus(status, &contract.Config{OutputFile: out}))

	text := readOutput(t, out)
	assert.Contains(t, text, "Cache Dir: data")
	assert.Contains(t, text, "title.basics")
	assert.Contains(t, text, "2024-01-30")
	assert.Contains(t, text, "Total: 2 files (1 current, 1 stale), 3.0 MiB")
}

func TestPrintCacheStatusEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, PrintCacheStatus(schema.CacheStatus{Dir: "data"}, &contract.Config{OutputFile: out}))
	assert.Contains(t, readOutput(t, out), "No cached datasets.")
}

func TestPrintHistoryStatus(t *testing.T) {
	status := schema.HistoryStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     2,
		LastRunID:     "abc",
		LastRunTime:   reportNow,
		OldestRunTime: reportNow.Add(-time.Hour),
		TotalActors:   20,
		TotalSearches: 18,
		TableSizes:    map[string]int64{"marquee_runs": 2, "marquee_searches": 18},
		SchemaVersion: 1,
	}

	t.Run("text", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "history.txt")
		require.NoError(t, PrintHistoryStatus(status, &contract.Config{OutputFile: out}))
		text := readOutput(t, out)
		assert.Contains(t, text, "History Backend: sqlite")
		assert.Contains(t, text, "Last Run ID: abc")
		assert.Contains(t, text, "  marquee_runs: 2 rows")
	})

	t.Run("json", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "history.json")
		require.NoError(t, PrintHistoryStatus(status, &contract.Config{Output: schema.JSONOut, OutputFile: out}))
		var got schema.HistoryStatus
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, out)), &got))
		assert.Equal(t, 18, got.TotalSearches)
	})

	t.Run("disconnected", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "history.txt")
		require.NoError(t, PrintHistoryStatus(schema.HistoryStatus{Backend: "none"}, &contract.Config{OutputFile: out}))
		assert.NotContains(t, readOutput(t, out), "Total Runs")
	})
}

func TestPrintDatasetList(t *testing.T) {
	out := filepath.Join(t.TempDir(), "datasets.txt")
	list := []schema.DatasetInfo{
		{Name: schema.TitleBasics, URL: "https://datasets.imdbws.com/title.basics.tsv.gz", Cached: true},
		{Name: schema.NameBasics, URL: "https://datasets.imdbws.com/name.basics.tsv.gz"},
	}
	require.NoError(t, PrintDatasetList(list, &contract.Config{OutputFile: out}))
	text := readOutput(t, out)
	assert.Contains(t, text, "title.basics")
	assert.Contains(t, text, "name.basics")
}

func TestPrintReportSummary(t *testing.T) {
	summary := &schema.ReportSummary{
		RankingPath: "reports/20240131235958-ActorsWithMostMovies.csv",
		Actors:      sampleActors,
		Reports: []schema.ActorReport{
			{Actor: sampleActors[0], PostCount: 3, Path: "reports/20240131235958-AliceAble.csv"},
			{Actor: sampleActors[1], PostCount: 0},
		},
	}
	out := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, PrintReportSummary(summary, &contract.Config{OutputFile: out, Width: 120}, time.Second))
	text := readOutput(t, out)
	assert.Contains(t, text, "AliceAble.csv")
	assert.Contains(t, text, "Ranking report: reports/20240131235958-ActorsWithMostMovies.csv")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "2.0 GiB", formatBytes(2*1024*1024*1024))
}
