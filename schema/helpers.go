package schema

import (
	"strconv"
	"strings"
)

// ParseYear parses an IMDb year column. Missing or malformed values report false.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == NullValue {
		return 0, false
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		// startYear is occasionally published as a float by upstream tooling
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		return int(f), true
	}
	return y, true
}

// IsActingCategory reports whether a principal category counts as an acting credit.
func IsActingCategory(category string) bool {
	return category == ActorCategory || category == ActressCategory
}

// CompactName removes spaces from a display name so it can be used in a file name.
func CompactName(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// SafeFileName turns a display name into a file-name fragment.
// Spaces are removed and path separators are replaced so a name can never escape the reports directory.
func SafeFileName(name string) string {
	compact := CompactName(strings.TrimSpace(name))
	compact = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, compact)
	if compact == "" || compact == "." || compact == ".." {
		return "_"
	}
	return compact
}

// SearchQuery builds the literal parenthesized query used for an actor.
func SearchQuery(displayName string) string {
	return "(" + displayName + ")"
}
