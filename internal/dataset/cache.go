package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
)

// parseCacheName splits "<YYYYMMDD>-<dataset>.tsv.gz" into its date and dataset parts.
func parseCacheName(name string, loc *time.Location) (time.Time, string, bool) {
	if !strings.HasSuffix(name, fileSuffix) || len(name) < len(contract.DateStampFormat)+1+len(fileSuffix) {
		return time.Time{}, "", false
	}
	stamp := name[:len(contract.DateStampFormat)]
	if name[len(stamp)] != '-' {
		return time.Time{}, "", false
	}
	date, err := time.ParseInLocation(contract.DateStampFormat, stamp, loc)
	if err != nil {
		return time.Time{}, "", false
	}
	dataset := strings.TrimSuffix(name[len(stamp)+1:], fileSuffix)
	if dataset == "" {
		return time.Time{}, "", false
	}
	return date, dataset, true
}

// CacheStatus lists the cached dumps in dir. A missing directory is an empty cache.
func CacheStatus(dir string, clock contract.Clock) (schema.CacheStatus, error) {
	status := schema.CacheStatus{Dir: dir, Entries: []schema.CachedDataset{}}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return status, nil
		}
		return status, err
	}

	now := clock.Now()
	today := contract.DateStamp(now)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		date, dataset, ok := parseCacheName(e.Name(), now.Location())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return status, err
		}
		entry := schema.CachedDataset{
			Path:      filepath.Join(dir, e.Name()),
			Dataset:   dataset,
			Date:      date,
			SizeBytes: info.Size(),
			Current:   contract.DateStamp(date) == today,
		}
		status.Entries = append(status.Entries, entry)
		status.TotalFiles++
		status.TotalBytes += entry.SizeBytes
		if entry.Current {
			status.CurrentFiles++
		} else {
			status.StaleFiles++
		}
	}

	sort.Slice(status.Entries, func(i, j int) bool {
		a, b := status.Entries[i], status.Entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Dataset < b.Dataset
	})
	return status, nil
}

// ClearCache removes stale dumps from dir, or every dump when all is true.
// Leftover .part files from interrupted downloads are always removed.
// It returns the number of files deleted.
func ClearCache(dir string, clock contract.Clock, all bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	now := clock.Now()
	today := contract.DateStamp(now)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		remove := strings.HasSuffix(name, fileSuffix+".part")
		if date, _, ok := parseCacheName(name, now.Location()); ok {
			remove = all || contract.DateStamp(date) != today
		}
		if !remove {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
