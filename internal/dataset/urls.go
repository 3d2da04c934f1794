// Package dataset resolves, downloads, caches and reads the IMDb TSV dumps.
package dataset

import (
	"slices"
	"strings"

	"github.com/huangsam/marquee/schema"
)

// DefaultBaseURL is the public IMDb dataset source.
const DefaultBaseURL = "https://datasets.imdbws.com"

// fileSuffix is appended to every dataset name to form the published file name.
const fileSuffix = ".tsv.gz"

// IsKnown reports whether name is one of the published datasets.
func IsKnown(name schema.DatasetName) bool {
	return slices.Contains(schema.AllDatasets, name)
}

// FileName returns the published file name for a dataset, e.g. title.basics.tsv.gz.
func FileName(name schema.DatasetName) string {
	return string(name) + fileSuffix
}

// ResolveURL returns the download URL for a dataset on the default source.
// Unknown names report false.
func ResolveURL(name schema.DatasetName) (string, bool) {
	return ResolveURLWithBase(DefaultBaseURL, name)
}

// ResolveURLWithBase is ResolveURL against a different source, used for mirrors and tests.
func ResolveURLWithBase(base string, name schema.DatasetName) (string, bool) {
	if !IsKnown(name) {
		return "", false
	}
	return strings.TrimRight(base, "/") + "/" + FileName(name), true
}
