package schema

// Custom string types for type safety.
type (
	// DatasetName is the logical name of an IMDb dataset dump.
	DatasetName string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// TieBreak selects how actors with equal credit counts are ordered.
	TieBreak string

	// RunStatus is the lifecycle state of a report run.
	RunStatus string
)

// All IMDb datasets published at the dataset source.
const (
	NameBasics      DatasetName = "name.basics"
	TitleAkas       DatasetName = "title.akas"
	TitleBasics     DatasetName = "title.basics"
	TitleCrew       DatasetName = "title.crew"
	TitleEpisode    DatasetName = "title.episode"
	TitlePrincipals DatasetName = "title.principals"
	TitleRatings    DatasetName = "title.ratings"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All tie-break strategies supported.
const (
	InputOrderTieBreak TieBreak = "input" // default
	PersonIDTieBreak   TieBreak = "id"
)

// All run states recorded in history.
const (
	RunningStatus   RunStatus = "running"
	CompletedStatus RunStatus = "completed"
	FailedStatus    RunStatus = "failed"
)

// IMDb column names consumed by the ranking.
const (
	ColTitleID     = "tconst"
	ColTitleType   = "titleType"
	ColStartYear   = "startYear"
	ColOrdering    = "ordering"
	ColPersonID    = "nconst"
	ColCategory    = "category"
	ColPrimaryName = "primaryName"
)

// NullValue is the marker IMDb uses for missing fields.
const NullValue = `\N`

// MovieType is the titleType value that qualifies a title.
const MovieType = "movie"

// Acting categories that qualify a principal.
const (
	ActorCategory   = "actor"
	ActressCategory = "actress"
)

// AllDatasets lists every dataset in publication order.
var AllDatasets = []DatasetName{
	NameBasics,
	TitleAkas,
	TitleBasics,
	TitleCrew,
	TitleEpisode,
	TitlePrincipals,
	TitleRatings,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTieBreaks lists all valid tie-break strategies.
var ValidTieBreaks = map[TieBreak]struct{}{
	InputOrderTieBreak: {},
	PersonIDTieBreak:   {},
}
