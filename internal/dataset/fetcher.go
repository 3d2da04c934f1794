package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/logger"
	"github.com/huangsam/marquee/schema"
)

// ErrUnexpectedStatus is returned when the dataset source answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("dataset: unexpected status")

// chunkSize is the buffer used when streaming a download to disk.
const chunkSize = 8192

// CachedFetcher downloads dataset dumps into a date-keyed cache directory.
// A dump is downloaded at most once per calendar day of the injected clock.
type CachedFetcher struct {
	dir     string
	baseURL string
	client  *http.Client
	clock   contract.Clock
	log     *logger.Logger
}

// Option configures the fetcher.
type Option func(*CachedFetcher)

// WithBaseURL points the fetcher at a different dataset source.
func WithBaseURL(base string) Option {
	return func(f *CachedFetcher) { f.baseURL = base }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *CachedFetcher) { f.client = c }
}

// WithTimeout sets the overall HTTP timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *CachedFetcher) { f.client = &http.Client{Timeout: d} }
}

// WithClock replaces the clock used for cache keys.
func WithClock(c contract.Clock) Option {
	return func(f *CachedFetcher) { f.clock = c }
}

// NewCachedFetcher builds a fetcher that caches into dir.
func NewCachedFetcher(dir string, opts ...Option) *CachedFetcher {
	f := &CachedFetcher{
		dir:     dir,
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
		clock:   contract.SystemClock{},
		log:     logger.Named("dataset"),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Dir returns the cache directory.
func (f *CachedFetcher) Dir() string { return f.dir }

// CachePath returns the cache location for name on the clock's current day.
func (f *CachedFetcher) CachePath(name schema.DatasetName) string {
	return filepath.Join(f.dir, contract.DateStamp(f.clock.Now())+"-"+FileName(name))
}

// Fetch returns the local path of today's copy of the dataset, downloading it when absent.
// Unknown names report ok=false without touching the network.
func (f *CachedFetcher) Fetch(ctx context.Context, name schema.DatasetName) (string, bool, error) {
	url, ok := ResolveURLWithBase(f.baseURL, name)
	if !ok {
		return "", false, nil
	}
	path := f.CachePath(name)

	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		f.log.Debug().Str("dataset", string(name)).Str("path", path).Msg("dataset cache hit")
		return path, true, nil
	}

	f.log.Info().Str("dataset", string(name)).Str("url", url).Msg("downloading dataset")
	started := time.Now()
	n, err := f.download(ctx, url, path)
	if err != nil {
		return "", true, fmt.Errorf("fetch %s: %w", name, err)
	}
	f.log.Info().
		Str("dataset", string(name)).
		Str("path", path).
		Int64("bytes", n).
		Dur("took", time.Since(started)).
		Msg("dataset downloaded")
	return path, true, nil
}

// download streams url into path through a .part file that is renamed on success.
func (f *CachedFetcher) download(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w %d for %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, werr := copyChunks(out, resp.Body)
	cerr := out.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp)
		return 0, errors.Join(werr, cerr)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	return n, nil
}

// copyChunks copies src to dst in fixed-size chunks.
func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
