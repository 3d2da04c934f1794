package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineSize bounds a single TSV row. IMDb rows are short but knownForTitles can grow.
const maxLineSize = 4 * 1024 * 1024

// Row is a single data line addressed by column name.
type Row struct {
	index  map[string]int
	fields []string
}

// Get returns the value of column col, or "" when the column is absent or the row is short.
func (r Row) Get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// TSVReader streams rows from a gzip-compressed, tab-separated dump with a header line.
type TSVReader struct {
	r       io.ReadCloser
	gz      *gzip.Reader
	sc      *bufio.Scanner
	columns []string
	index   map[string]int
	line    int
	err     error
}

// Open opens a cached dump for reading.
func Open(path string) (*TSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewTSVReader(f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return rd, nil
}

// NewTSVReader wraps r and consumes the header line. r is closed by Close, or
// immediately when the header cannot be read.
func NewTSVReader(r io.ReadCloser) (*TSVReader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	if !sc.Scan() {
		err := sc.Err()
		if err == nil {
			err = errors.New("missing header line")
		}
		_ = gz.Close()
		_ = r.Close()
		return nil, err
	}
	columns := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &TSVReader{r: r, gz: gz, sc: sc, columns: columns, index: index, line: 1}, nil
}

// Columns returns the header columns in file order.
func (t *TSVReader) Columns() []string {
	return t.columns
}

// RequireColumns returns an error naming the first missing column.
func (t *TSVReader) RequireColumns(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

// Next returns the next data row; io.EOF when done.
func (t *TSVReader) Next() (Row, error) {
	if t.err != nil {
		return Row{}, t.err
	}
	for t.sc.Scan() {
		t.line++
		text := strings.TrimRight(t.sc.Text(), "\r")
		if text == "" {
			continue
		}
		return Row{index: t.index, fields: strings.Split(text, "\t")}, nil
	}
	if err := t.sc.Err(); err != nil {
		t.err = fmt.Errorf("line %d: %w", t.line+1, err)
		return Row{}, t.err
	}
	t.err = io.EOF
	return Row{}, io.EOF
}

// Close closes the gzip stream and the underlying file.
func (t *TSVReader) Close() error {
	var first error
	if t.gz != nil {
		first = t.gz.Close()
	}
	if t.r != nil {
		if err := t.r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
