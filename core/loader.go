package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/marquee/internal/dataset"
	"github.com/huangsam/marquee/schema"
)

// cancelCheckInterval is how many rows are read between context checks.
const cancelCheckInterval = 100_000

// scanDataset streams every row of the dump at path into fn after checking the
// required columns are present.
func scanDataset(ctx context.Context, path string, cols []string, fn func(dataset.Row)) error {
	rd, err := dataset.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rd.Close() }()

	if err := rd.RequireColumns(cols...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fn(row)
	}
}

// titleFromRow converts a title.basics row.
func titleFromRow(row dataset.Row) schema.Title {
	year, ok := schema.ParseYear(row.Get(schema.ColStartYear))
	return schema.Title{
		ID:      row.Get(schema.ColTitleID),
		Type:    row.Get(schema.ColTitleType),
		Year:    year,
		HasYear: ok,
	}
}

// principalFromRow converts a title.principals row.
func principalFromRow(row dataset.Row) schema.Principal {
	ordering, _ := strconv.Atoi(row.Get(schema.ColOrdering))
	return schema.Principal{
		TitleID:  row.Get(schema.ColTitleID),
		Ordering: ordering,
		PersonID: row.Get(schema.ColPersonID),
		Category: row.Get(schema.ColCategory),
	}
}

// LoadMovieIDs streams title.basics and returns the IDs of movies released in [from, to].
func LoadMovieIDs(ctx context.Context, path string, from, to int) (map[string]struct{}, error) {
	movies := make(map[string]struct{})
	err := scanDataset(ctx, path, []string{schema.ColTitleID, schema.ColTitleType, schema.ColStartYear}, func(row dataset.Row) {
		if t := titleFromRow(row); isQualifyingMovie(t, from, to) {
			movies[t.ID] = struct{}{}
		}
	})
	return movies, err
}

// CountCreditsFromFile streams title.principals and counts acting credits on movies.
// The principals dump is never held in memory.
func CountCreditsFromFile(ctx context.Context, path string, movies map[string]struct{}) ([]schema.ActorCredits, error) {
	c := newCreditCounter()
	err := scanDataset(ctx, path, []string{schema.ColTitleID, schema.ColPersonID, schema.ColCategory}, func(row dataset.Row) {
		c.add(principalFromRow(row), movies)
	})
	if err != nil {
		return nil, err
	}
	return c.result(), nil
}

// LoadNames streams name.basics and returns display names for the wanted person IDs.
func LoadNames(ctx context.Context, path string, wanted []string) (map[string]string, error) {
	want := make(map[string]struct{}, len(wanted))
	for _, id := range wanted {
		want[id] = struct{}{}
	}
	names := make(map[string]string, len(wanted))
	err := scanDataset(ctx, path, []string{schema.ColPersonID, schema.ColPrimaryName}, func(row dataset.Row) {
		id := row.Get(schema.ColPersonID)
		if _, ok := want[id]; ok {
			names[id] = row.Get(schema.ColPrimaryName)
		}
	})
	return names, err
}
