package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/marquee/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "marquee_runs", false},
		{"valid name starting with underscore", "_runs", false},
		{"valid mixed case", "Runs_123", false},
		{"empty name", "", true},
		{"starts with number", "123_runs", true},
		{"contains dash", "marquee-runs", true},
		{"sql injection attempt", "runs'; DROP TABLE users; --", true},
		{"contains dot", "db.runs", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			assert.Equal(t, tt.wantErr, err != nil, "validateTableName(%q) error = %v", tt.tableName, err)
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"marquee_runs"`, quoteTableName("marquee_runs", schema.SQLiteBackend))
	assert.Equal(t, "`marquee_runs`", quoteTableName("marquee_runs", schema.MySQLBackend))
	assert.Equal(t, `"marquee_runs"`, quoteTableName("marquee_runs", schema.PostgreSQLBackend))
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b, c) VALUES (?, ?, ?)"
	assert.Equal(t, q, rebind(q, schema.SQLiteBackend))
	assert.Equal(t, q, rebind(q, schema.MySQLBackend))
	assert.Equal(t, "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)", rebind(q, schema.PostgreSQLBackend))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, time.January, 31, 12, 0, 0, 5, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-01-31T11:00:00.000000005Z", formatTime(ts, schema.SQLiteBackend))
	assert.Equal(t, ts.UTC(), formatTime(ts, schema.MySQLBackend))
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		src  any
	}{
		{"native", want},
		{"sqlite text", "2024-01-31T12:00:00.000000000Z"},
		{"mysql bytes", []byte("2024-01-31 12:00:00.000000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d dbTime
			require.NoError(t, d.Scan(tt.src))
			assert.True(t, d.Valid)
			assert.True(t, want.Equal(d.Time))
			require.NotNil(t, d.ptr())
		})
	}

	var d dbTime
	require.NoError(t, d.Scan(nil))
	assert.Nil(t, d.ptr())
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

func TestDriverFor(t *testing.T) {
	name, err := driverFor(schema.PostgreSQLBackend)
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)
	_, err = driverFor(schema.NoneBackend)
	assert.Error(t, err)
}
