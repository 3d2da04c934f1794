// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
)

// OutWriter provides a unified interface for all console output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteActors prints the actor ranking using the configured output format.
func (ow *OutWriter) WriteActors(actors []schema.RankedActor, cfg *contract.Config, duration time.Duration) error {
	return PrintActorResults(actors, cfg, duration)
}

// WriteReportSummary prints what a report run produced.
func (ow *OutWriter) WriteReportSummary(summary *schema.ReportSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintReportSummary(summary, cfg, duration)
}

// WriteCacheStatus prints the dataset cache listing.
func (ow *OutWriter) WriteCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	return PrintCacheStatus(status, cfg)
}

// WriteHistoryStatus prints the run history status.
func (ow *OutWriter) WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return PrintHistoryStatus(status, cfg)
}
