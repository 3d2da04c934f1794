package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)

// writeDump writes a gzipped TSV dump into dir.
func writeDump(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// stubFetcher serves pre-written dumps and records which datasets were requested.
type stubFetcher struct {
	paths     map[schema.DatasetName]string
	requested []schema.DatasetName
	err       error
}

func (s *stubFetcher) Fetch(_ context.Context, name schema.DatasetName) (string, bool, error) {
	s.requested = append(s.requested, name)
	if s.err != nil {
		return "", true, s.err
	}
	path, ok := s.paths[name]
	return path, ok, nil
}

// abcFixture builds datasets with three in-range movies where A has 5 credits and
// B and C have 3 each. A and C carry repeated rows within a title, and B appears
// before C in the principals dump.
func abcFixture(t *testing.T) *stubFetcher {
	t.Helper()
	dir := t.TempDir()
	titles := writeDump(t, dir, "title.basics.tsv.gz",
		"tconst\ttitleType\tprimaryTitle\tstartYear",
		"tt1\tmovie\tOne\t2022",
		"tt2\tmovie\tTwo\t2023",
		"tt3\tmovie\tThree\t2024",
		"tt6\tmovie\tOld\t2001",
		"tt7\ttvSeries\tShow\t2020",
		"tt8\tmovie\tUnknown\t\\N",
	)
	principals := writeDump(t, dir, "title.principals.tsv.gz",
		"tconst\tordering\tnconst\tcategory\tjob\tcharacters",
		"tt1\t1\tnmA\tactress\t\\N\t\\N",
		"tt1\t2\tnmB\tactor\t\\N\t\\N",
		"tt1\t3\tnmA\tactress\t\\N\t\\N",
		"tt1\t4\tnmC\tactress\t\\N\t\\N",
		"tt1\t5\tnmD\tdirector\t\\N\t\\N",
		"tt2\t1\tnmA\tactress\t\\N\t\\N",
		"tt2\t2\tnmC\tactress\t\\N\t\\N",
		"tt2\t3\tnmB\tactor\t\\N\t\\N",
		"tt2\t4\tnmC\tactress\t\\N\t\\N",
		"tt3\t1\tnmA\tactress\t\\N\t\\N",
		"tt3\t2\tnmB\tactor\t\\N\t\\N",
		"tt3\t3\tnmA\tactress\t\\N\t\\N",
		"tt6\t1\tnmE\tactor\t\\N\t\\N",
		"tt6\t2\tnmE\tactor\t\\N\t\\N",
		"tt7\t1\tnmE\tactor\t\\N\t\\N",
		"tt8\t1\tnmE\tactor\t\\N\t\\N",
	)
	names := writeDump(t, dir, "name.basics.tsv.gz",
		"nconst\tprimaryName\tbirthYear\tdeathYear\tprimaryProfession\tknownForTitles",
		"nmA\tAlice Able\t1970\t\\N\tactress\ttt1",
		"nmB\tBob Baker\t1980\t\\N\tactor\ttt2",
		"nmC\tCara Cole\t1990\t\\N\tactress\ttt3",
		"nmD\tDan Director\t1960\t\\N\tdirector\ttt1",
	)
	return &stubFetcher{paths: map[schema.DatasetName]string{
		schema.TitleBasics:     titles,
		schema.TitlePrincipals: principals,
		schema.NameBasics:      names,
	}}
}

func testConfig() *contract.Config {
	return &contract.Config{
		ResultLimit: 10,
		Years:       10,
		TieBreak:    schema.InputOrderTieBreak,
		Output:      schema.JSONOut,
	}
}
