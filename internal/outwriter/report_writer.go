package outwriter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
)

// RankingReportName is the base name of the ranking report.
const RankingReportName = "ActorsWithMostMovies"

// ErrNoPosts is returned when asked to write an empty posts report.
var ErrNoPosts = errors.New("outwriter: no posts to write")

// ReportWriter writes timestamped CSV reports into a directory.
// Every report starts with an unnamed index column counting rows from zero.
type ReportWriter struct {
	dir   string
	clock contract.Clock
}

var _ contract.ReportWriter = &ReportWriter{} // Compile-time check

// NewReportWriter creates a writer for dir using clock for file name timestamps.
func NewReportWriter(dir string, clock contract.Clock) *ReportWriter {
	return &ReportWriter{dir: dir, clock: clock}
}

// Dir returns the reports directory.
func (w *ReportWriter) Dir() string { return w.dir }

// reportPath returns <dir>/<YYYYMMDDHHMMSS>-<name>.csv for the current instant.
func (w *ReportWriter) reportPath(name string) string {
	return filepath.Join(w.dir, contract.Timestamp(w.clock.Now())+"-"+name+".csv")
}

// WriteRanking writes the ranking report and returns its path.
func (w *ReportWriter) WriteRanking(actors []schema.RankedActor) (string, error) {
	columns := []string{schema.ColPersonID, "participations", schema.ColPrimaryName}
	return w.create(RankingReportName, func(f io.Writer) error {
		return writeIndexedCSV(f, columns, len(actors), func(i int) ([]string, error) {
			a := actors[i]
			return []string{a.PersonID, strconv.Itoa(a.Participations), a.PrimaryName}, nil
		})
	})
}

// WritePosts writes one actor's posts and returns the report path.
// Columns are the union of post fields in first-seen order; absent fields are empty cells.
func (w *ReportWriter) WritePosts(actorName string, posts []schema.Post) (string, error) {
	if len(posts) == 0 {
		return "", ErrNoPosts
	}
	cols := schema.PostColumns(posts)
	return w.create(schema.SafeFileName(actorName), func(f io.Writer) error {
		return writeIndexedCSV(f, cols, len(posts), func(i int) ([]string, error) {
			cells := make([]string, 0, len(cols))
			for _, col := range cols {
				v, _ := posts[i].Get(col)
				cell, err := FormatCell(v)
				if err != nil {
					return nil, fmt.Errorf("post %d field %q: %w", i, col, err)
				}
				cells = append(cells, cell)
			}
			return cells, nil
		})
	})
}

// create writes a new report exclusively. An existing file is never overwritten.
func (w *ReportWriter) create(name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", err
	}
	path := w.reportPath(name)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	werr := write(file)
	cerr := file.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return "", errors.Join(werr, cerr)
	}
	return path, nil
}

// FormatCell renders a decoded JSON value as a CSV cell.
// Objects and arrays are re-encoded as compact JSON.
func FormatCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
