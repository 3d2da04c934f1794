package cmd

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/dataset"
	"github.com/huangsam/marquee/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"actors", "datasets", "cache", "history", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := func(parent string) []string {
		for _, c := range rootCmd.Commands() {
			if c.Name() != parent {
				continue
			}
			var out []string
			for _, s := range c.Commands() {
				out = append(out, s.Name())
			}
			return out
		}
		return nil
	}
	assert.ElementsMatch(t, []string{"list", "fetch"}, sub("datasets"))
	assert.ElementsMatch(t, []string{"status", "clear"}, sub("cache"))
	assert.ElementsMatch(t, []string{"status", "clear", "migrate", "export"}, sub("history"))
}

func TestPersistentFlagDefaults(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	tests := []struct {
		name string
		want string
	}{
		{"limit", "10"},
		{"years", "10"},
		{"tie-break", "input"},
		{"data-dir", "data"},
		{"reports-dir", "reports"},
		{"history-backend", "none"},
		{"output", "text"},
	}
	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		require.NotNil(t, f, tt.name)
		assert.Equal(t, tt.want, f.DefValue, tt.name)
	}
	assert.Equal(t, "l", flags.Lookup("limit").Shorthand)
}

func TestLoadHistoryConfig(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("history-backend", "")
		viper.Set("history-db-connect", "")
	})

	viper.Set("history-backend", "sqlite")
	viper.Set("history-db-connect", filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, loadHistoryConfig())
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, viper.GetString("history-db-connect"), historySQLitePath())

	viper.Set("history-backend", "oracle")
	assert.ErrorContains(t, loadHistoryConfig(), "invalid history backend")

	viper.Set("history-backend", "mysql")
	viper.Set("history-db-connect", "")
	assert.ErrorContains(t, loadHistoryConfig(), "history-db-connect is required")
}

func TestNewDeps(t *testing.T) {
	c := &contract.Config{
		DataDir:        t.TempDir(),
		DatasetBaseURL: "http://127.0.0.1:1",
		SearchBaseURL:  "http://127.0.0.1:2",
		SearchCount:    5,
		HTTPTimeout:    time.Second,
	}
	clock := contract.FixedClock{T: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)}

	f := newFetcher(c, clock)
	assert.Equal(t, c.DataDir, f.Dir())
	assert.Equal(t, filepath.Join(c.DataDir, "20240131-title.basics.tsv.gz"), f.CachePath(schema.TitleBasics))

	s := newSearcher(c)
	require.NotNil(t, s)
}

// Failures must come back to main as errors so it can close history before exiting.
func TestRunFailuresReturnErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	saved := *cfg
	t.Cleanup(func() { *cfg = saved })
	cfg.DataDir = t.TempDir()
	cfg.ReportsDir = t.TempDir()
	cfg.DatasetBaseURL = srv.URL
	cfg.SearchBaseURL = srv.URL
	cfg.HTTPTimeout = time.Second
	cfg.ResultLimit = 10
	cfg.Years = 10
	cfg.TieBreak = schema.InputOrderTieBreak
	cfg.Output = schema.JSONOut

	for _, c := range []*cobra.Command{rootCmd, actorsCmd} {
		require.Nil(t, c.Run, c.Name())
		require.NotNil(t, c.RunE, c.Name())
		err := c.RunE(c, nil)
		assert.ErrorIs(t, err, dataset.ErrUnexpectedStatus, c.Name())
	}
}

func TestCommandsUseRunE(t *testing.T) {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		switch c.Name() {
		case "version", "help", "completion":
		default:
			assert.Nil(t, c.Run, c.CommandPath())
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}
