//go:build integration || database

// Package integration contains end-to-end tests for the marquee binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

var (
	// sharedMarqueePath holds the path to a shared marquee binary built once for all tests.
	sharedMarqueePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getMarqueeBinary returns the path to the marquee binary, building it once if needed.
func getMarqueeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "marquee-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		marqueePath := filepath.Join(tempDir, "marquee")
		buildCmd := exec.Command("go", "build", "-o", marqueePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build marquee: %v", err))
		}

		sharedMarqueePath = marqueePath
	})

	return sharedMarqueePath
}

// fakeUpstream serves the three datasets and the search API from one test server.
type fakeUpstream struct {
	*httptest.Server
	datasetHits atomic.Int32
	searchHits  atomic.Int32
}

// gzipLines returns the gzipped TSV built from lines.
func gzipLines(t *testing.T, lines ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// newFakeUpstream builds datasets where Alice Able has two recent movies and Bob Baker one.
// Only Alice Able has posts.
func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	year := time.Now().Year()
	dumps := map[string][]byte{
		"/title.basics.tsv.gz": gzipLines(t,
			"tconst\ttitleType\tprimaryTitle\tstartYear",
			"tt1\tmovie\tFirst\t"+strconv.Itoa(year-1),
			"tt2\tmovie\tSecond\t"+strconv.Itoa(year-2),
			"tt3\ttvSeries\tShow\t"+strconv.Itoa(year-1),
			"tt4\tmovie\tOld\t1950",
		),
		"/title.principals.tsv.gz": gzipLines(t,
			"tconst\tordering\tnconst\tcategory",
			"tt1\t1\tnm1\tactress",
			"tt1\t2\tnm2\tactor",
			"tt2\t1\tnm1\tactress",
			"tt3\t1\tnm2\tactor",
			"tt4\t1\tnm2\tactor",
		),
		"/name.basics.tsv.gz": gzipLines(t,
			"nconst\tprimaryName",
			"nm1\tAlice Able",
			"nm2\tBob Baker",
		),
	}

	up := &fakeUpstream{}
	mux := http.NewServeMux()
	for path, body := range dumps {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			up.datasetHits.Add(1)
			_, _ = w.Write(body)
		})
	}
	mux.HandleFunc("/1.1/account/verify_credentials.json", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "OAuth ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"screen_name":"marquee"}`))
	})
	mux.HandleFunc("/1.1/search/tweets.json", func(w http.ResponseWriter, r *http.Request) {
		up.searchHits.Add(1)
		statuses := []map[string]any{}
		if r.URL.Query().Get("q") == "(Alice Able)" {
			statuses = append(statuses,
				map[string]any{"id": 1, "text": "loved it", "user": map[string]any{"screen_name": "fan"}},
				map[string]any{"id": 2, "text": "great cast", "lang": "en"},
			)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"statuses": statuses})
	})
	up.Server = httptest.NewServer(mux)
	t.Cleanup(up.Close)
	return up
}

// marqueeEnv returns the environment pointing marquee at the fake upstream and workDir.
func marqueeEnv(up *fakeUpstream, workDir string) []string {
	return []string{
		"MARQUEE_DATASET_BASE_URL=" + up.URL,
		"MARQUEE_SEARCH_BASE_URL=" + up.URL,
		"MARQUEE_DATA_DIR=" + filepath.Join(workDir, "data"),
		"MARQUEE_REPORTS_DIR=" + filepath.Join(workDir, "reports"),
		"MARQUEE_CONSUMER_KEY=ck",
		"MARQUEE_CONSUMER_SECRET=cs",
		"MARQUEE_ACCESS_KEY=ak",
		"MARQUEE_ACCESS_SECRET=as",
		"MARQUEE_LOG_FORMAT=json",
	}
}

// runMarquee runs the binary in workDir and returns its stdout.
func runMarquee(t *testing.T, workDir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getMarqueeBinary(), args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
