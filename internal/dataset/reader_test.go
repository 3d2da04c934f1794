package dataset

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSVReader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "title.basics.tsv.gz", gzipLines(t,
		"tconst\ttitleType\tprimaryTitle\tstartYear",
		"tt0000001\tshort\tCarmencita\t1894",
		"",
		"tt0000002\tmovie\tLe clown\t\\N",
		"tt0000003\tmovie",
	))

	rd, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = rd.Close() }()

	assert.Equal(t, []string{"tconst", "titleType", "primaryTitle", "startYear"}, rd.Columns())
	require.NoError(t, rd.RequireColumns("tconst", "startYear"))
	assert.Error(t, rd.RequireColumns("category"))

	row, err := rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "tt0000001", row.Get("tconst"))
	assert.Equal(t, "1894", row.Get("startYear"))
	assert.Equal(t, "", row.Get("missing"))

	row, err = rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "tt0000002", row.Get("tconst"))
	assert.Equal(t, `\N`, row.Get("startYear"))

	row, err = rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "movie", row.Get("titleType"))
	assert.Equal(t, "", row.Get("startYear"), "short rows read as empty")

	_, err = rd.Next()
	assert.True(t, errors.Is(err, io.EOF))
	_, err = rd.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open("/does/not/exist.tsv.gz")
		assert.Error(t, err)
	})

	t.Run("not gzip", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.tsv.gz", []byte("plain text"))
		_, err := Open(path)
		assert.Error(t, err)
	})

	t.Run("empty stream", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "empty.tsv.gz", gzipEmpty(t))
		_, err := Open(path)
		assert.Error(t, err)
	})
}
