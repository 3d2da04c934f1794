package core

import (
	"sort"

	"github.com/huangsam/marquee/schema"
)

// isQualifyingMovie reports whether t is a movie released within [from, to].
// Titles without a parseable start year never qualify.
func isQualifyingMovie(t schema.Title, from, to int) bool {
	return t.Type == schema.MovieType && t.HasYear && t.Year >= from && t.Year <= to
}

// FilterMovies returns the IDs of movie titles whose start year lies in [from, to].
func FilterMovies(titles []schema.Title, from, to int) map[string]struct{} {
	movies := make(map[string]struct{})
	for _, t := range titles {
		if isQualifyingMovie(t, from, to) {
			movies[t.ID] = struct{}{}
		}
	}
	return movies
}

// FilterActingCredits keeps principals credited as actor or actress, preserving order.
func FilterActingCredits(principals []schema.Principal) []schema.Principal {
	out := make([]schema.Principal, 0, len(principals))
	for _, p := range principals {
		if schema.IsActingCategory(p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// creditCounter accumulates participations per person in order of first appearance.
// Every qualifying row counts, including repeated rows for the same person and title.
type creditCounter struct {
	order  []string
	counts map[string]int
}

func newCreditCounter() *creditCounter {
	return &creditCounter{counts: make(map[string]int)}
}

// add counts p when it is an acting credit on one of movies.
func (c *creditCounter) add(p schema.Principal, movies map[string]struct{}) {
	if !schema.IsActingCategory(p.Category) {
		return
	}
	if _, ok := movies[p.TitleID]; !ok {
		return
	}
	if _, seen := c.counts[p.PersonID]; !seen {
		c.order = append(c.order, p.PersonID)
	}
	c.counts[p.PersonID]++
}

func (c *creditCounter) result() []schema.ActorCredits {
	out := make([]schema.ActorCredits, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, schema.ActorCredits{PersonID: id, Participations: c.counts[id]})
	}
	return out
}

// CountCredits joins acting principals to the movie set and counts participations per person.
// A participation is one joined row, not one distinct title. The result lists persons
// in order of their first qualifying credit; persons with zero qualifying credits never appear.
func CountCredits(principals []schema.Principal, movies map[string]struct{}) []schema.ActorCredits {
	c := newCreditCounter()
	for _, p := range principals {
		c.add(p, movies)
	}
	return c.result()
}

// TopN sorts credits by participations descending and returns the first n.
// Equal counts keep input order, or are ordered by person ID with PersonIDTieBreak.
// The input slice is not modified.
func TopN(credits []schema.ActorCredits, n int, tieBreak schema.TieBreak) []schema.ActorCredits {
	sorted := make([]schema.ActorCredits, len(credits))
	copy(sorted, credits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Participations != sorted[j].Participations {
			return sorted[i].Participations > sorted[j].Participations
		}
		if tieBreak == schema.PersonIDTieBreak {
			return sorted[i].PersonID < sorted[j].PersonID
		}
		return false
	})
	if n >= 0 && len(sorted) > n {
		return sorted[:n]
	}
	return sorted
}

// AttachNames joins ranked credits to display names. Persons without a name are
// dropped and reported back; ranks are assigned after the drop.
func AttachNames(top []schema.ActorCredits, names map[string]string) (ranked []schema.RankedActor, missing []string) {
	ranked = make([]schema.RankedActor, 0, len(top))
	for _, c := range top {
		name, ok := names[c.PersonID]
		if !ok {
			missing = append(missing, c.PersonID)
			continue
		}
		ranked = append(ranked, schema.RankedActor{
			Rank:           len(ranked) + 1,
			PersonID:       c.PersonID,
			Participations: c.Participations,
			PrimaryName:    name,
		})
	}
	return ranked, missing
}
