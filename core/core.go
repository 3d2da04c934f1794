// Package core has core logic for ranking actors and producing reports.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/logger"
	"github.com/huangsam/marquee/internal/outwriter"
	"github.com/huangsam/marquee/schema"
)

// fetchDataset resolves name through fetcher, turning an absent result into an error.
func fetchDataset(ctx context.Context, fetcher contract.DatasetFetcher, name schema.DatasetName) (string, error) {
	path, ok, err := fetcher.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("unknown dataset %q", name)
	}
	return path, nil
}

// RankActors downloads the datasets it needs and returns the actors and actresses with
// the most movie credits in the trailing cfg.Years years, at most cfg.ResultLimit of them.
func RankActors(ctx context.Context, cfg *contract.Config, fetcher contract.DatasetFetcher, clock contract.Clock) ([]schema.RankedActor, error) {
	log := logger.Named("core")
	from, to := contract.YearWindow(clock.Now(), cfg.Years)

	titlesPath, err := fetchDataset(ctx, fetcher, schema.TitleBasics)
	if err != nil {
		return nil, err
	}
	movies, err := LoadMovieIDs(ctx, titlesPath, from, to)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	log.Info().Int("movies", len(movies)).Int("from", from).Int("to", to).Msg("filtered movies")

	principalsPath, err := fetchDataset(ctx, fetcher, schema.TitlePrincipals)
	if err != nil {
		return nil, err
	}
	credits, err := CountCreditsFromFile(ctx, principalsPath, movies)
	if err != nil {
		return nil, fmt.Errorf("count credits: %w", err)
	}
	top := TopN(credits, cfg.ResultLimit, cfg.TieBreak)
	log.Info().Int("people", len(credits)).Int("top", len(top)).Msg("counted acting credits")

	namesPath, err := fetchDataset(ctx, fetcher, schema.NameBasics)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(top))
	for i, c := range top {
		ids[i] = c.PersonID
	}
	names, err := LoadNames(ctx, namesPath, ids)
	if err != nil {
		return nil, fmt.Errorf("load names: %w", err)
	}
	ranked, missing := AttachNames(top, names)
	for _, id := range missing {
		log.Debug().Str("nconst", id).Msg("ranked person has no name record, dropped")
	}
	return ranked, nil
}

// ExecuteActors ranks actors and prints the table in the configured output format.
// It serves as the main entry point for the 'actors' command.
func ExecuteActors(ctx context.Context, cfg *contract.Config, fetcher contract.DatasetFetcher, clock contract.Clock) error {
	start := time.Now()
	ranked, err := RankActors(ctx, cfg, fetcher, clock)
	if err != nil {
		return err
	}
	return outwriter.PrintActorResults(ranked, cfg, time.Since(start))
}
