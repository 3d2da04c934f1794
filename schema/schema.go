// Package schema holds the records shared by the ranking, search and report layers.
package schema

// Title is a row of title.basics reduced to the columns the ranking needs.
type Title struct {
	ID      string // tconst
	Type    string // titleType
	Year    int    // startYear, valid only when HasYear is true
	HasYear bool
}

// Principal is a row of title.principals.
type Principal struct {
	TitleID  string // tconst
	Ordering int
	PersonID string // nconst
	Category string
}

// Name is a row of name.basics reduced to the display name.
type Name struct {
	PersonID    string // nconst
	PrimaryName string
}

// ActorCredits is the participation count for a single person before names are attached.
type ActorCredits struct {
	PersonID       string `json:"nconst"`
	Participations int    `json:"participations"`
}

// RankedActor is a ranked person with their participation count and display name.
type RankedActor struct {
	Rank           int    `json:"rank"`
	PersonID       string `json:"nconst"`
	Participations int    `json:"participations"`
	PrimaryName    string `json:"primaryName"`
}

// ActorPosts pairs a ranked actor with the posts found for them.
type ActorPosts struct {
	Actor RankedActor
	Posts []Post
}

// ActorReport is the outcome of the search step for one ranked actor.
type ActorReport struct {
	Actor     RankedActor `json:"actor"`
	Query     string      `json:"query"`
	PostCount int         `json:"post_count"`
	Path      string      `json:"path,omitempty"` // empty when no posts were found
}

// ReportSummary describes what a full report run produced.
type ReportSummary struct {
	RunID       string        `json:"run_id,omitempty"`
	RankingPath string        `json:"ranking_path"`
	Actors      []RankedActor `json:"actors"`
	Reports     []ActorReport `json:"reports"`
}
