package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/logger"
	"github.com/huangsam/marquee/schema"
)

// Pipeline bundles the collaborators of a report run.
// History is optional; a nil store disables run tracking.
type Pipeline struct {
	Fetcher  contract.DatasetFetcher
	Searcher contract.Searcher
	Writer   contract.ReportWriter
	Clock    contract.Clock
	History  contract.HistoryStore
}

func (p Pipeline) validate() error {
	switch {
	case p.Fetcher == nil:
		return errors.New("pipeline: fetcher is required")
	case p.Searcher == nil:
		return errors.New("pipeline: searcher is required")
	case p.Writer == nil:
		return errors.New("pipeline: report writer is required")
	case p.Clock == nil:
		return errors.New("pipeline: clock is required")
	}
	return nil
}

// ExecuteReport runs the whole batch once: rank, write the ranking report, authenticate,
// then search each actor in rank order and write a report for every non-empty result.
// The first failure aborts the run; reports already written are left in place.
func ExecuteReport(ctx context.Context, cfg *contract.Config, p Pipeline) (*schema.ReportSummary, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	log := logger.Named("core")
	run := newRunTracker(p.History, p.Clock)
	run.begin(cfg)

	summary, err := executeReport(ctx, cfg, p, run)
	run.end(err, summary)
	if summary != nil {
		summary.RunID = run.id
	}
	if err != nil {
		return summary, err
	}
	log.Info().
		Int("actors", len(summary.Actors)).
		Int("reports", countWritten(summary.Reports)).
		Msg("report run completed")
	return summary, nil
}

func executeReport(ctx context.Context, cfg *contract.Config, p Pipeline, run *runTracker) (*schema.ReportSummary, error) {
	log := logger.Named("core")

	ranked, err := RankActors(ctx, cfg, p.Fetcher, p.Clock)
	if err != nil {
		return nil, err
	}
	summary := &schema.ReportSummary{Actors: ranked, Reports: []schema.ActorReport{}}

	summary.RankingPath, err = p.Writer.WriteRanking(ranked)
	if err != nil {
		return summary, fmt.Errorf("write ranking report: %w", err)
	}
	log.Info().Str("path", summary.RankingPath).Int("actors", len(ranked)).Msg("wrote ranking report")
	run.recordActors(ranked)

	if err := p.Searcher.Authenticate(ctx); err != nil {
		return summary, fmt.Errorf("authenticate: %w", err)
	}

	for _, actor := range ranked {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		report := schema.ActorReport{Actor: actor, Query: schema.SearchQuery(actor.PrimaryName)}
		posts, err := p.Searcher.Search(ctx, actor.PrimaryName)
		if err != nil {
			return summary, fmt.Errorf("search %q: %w", actor.PrimaryName, err)
		}
		report.PostCount = len(posts)
		if len(posts) == 0 {
			log.Info().Str("actor", actor.PrimaryName).Msg("no recent posts found")
		} else {
			report.Path, err = p.Writer.WritePosts(actor.PrimaryName, posts)
			if err != nil {
				return summary, fmt.Errorf("write posts for %q: %w", actor.PrimaryName, err)
			}
			log.Info().Str("actor", actor.PrimaryName).Int("posts", len(posts)).Str("path", report.Path).Msg("wrote posts report")
		}
		summary.Reports = append(summary.Reports, report)
		run.recordSearch(report)
	}
	return summary, nil
}

func countWritten(reports []schema.ActorReport) int {
	n := 0
	for _, r := range reports {
		if r.Path != "" {
			n++
		}
	}
	return n
}

// runTracker records a run in the history store. Store failures are logged and never
// fail the run.
type runTracker struct {
	store contract.HistoryStore
	clock contract.Clock
	id    string
}

func newRunTracker(store contract.HistoryStore, clock contract.Clock) *runTracker {
	return &runTracker{store: store, clock: clock}
}

func (r *runTracker) active() bool {
	return r.store != nil && r.id != ""
}

func (r *runTracker) begin(cfg *contract.Config) {
	if r.store == nil {
		return
	}
	params := map[string]any{
		"limit":     cfg.ResultLimit,
		"years":     cfg.Years,
		"tie_break": string(cfg.TieBreak),
	}
	id, err := r.store.BeginRun(r.clock.Now(), params)
	if err != nil {
		contract.LogWarn("Failed to begin history run", err)
		return
	}
	r.id = id
}

func (r *runTracker) recordActors(actors []schema.RankedActor) {
	if !r.active() {
		return
	}
	if err := r.store.RecordActors(r.id, actors); err != nil {
		contract.LogWarn("Failed to record ranked actors", err)
	}
}

func (r *runTracker) recordSearch(report schema.ActorReport) {
	if !r.active() {
		return
	}
	rec := schema.SearchRecord{
		RunID:      r.id,
		PersonID:   report.Actor.PersonID,
		Query:      report.Query,
		PostCount:  report.PostCount,
		SearchedAt: r.clock.Now(),
	}
	if report.Path != "" {
		path := report.Path
		rec.ReportPath = &path
	}
	if err := r.store.RecordSearch(r.id, rec); err != nil {
		contract.LogWarn("Failed to record search", err)
	}
}

func (r *runTracker) end(runErr error, summary *schema.ReportSummary) {
	if !r.active() {
		return
	}
	status := schema.CompletedStatus
	if runErr != nil {
		status = schema.FailedStatus
	}
	total := 0
	if summary != nil {
		total = len(summary.Actors)
	}
	if err := r.store.EndRun(r.id, r.clock.Now(), status, total); err != nil {
		contract.LogWarn("Failed to end history run", err)
	}
}
