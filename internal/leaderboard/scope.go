package leaderboard

import (
	"fmt"
	"strings"
	"time"
)

// Scope selects the aggregation window/mode for a leaderboard request.
type Scope string

const (
	ScopeDay      Scope = "day"
	ScopeWeek     Scope = "week"
	ScopeMonth    Scope = "month"
	ScopeLifetime Scope = "lifetime"
	ScopeSolo     Scope = "solo"
	ScopeSquad    Scope = "squad"
)

var validScopes = map[Scope]bool{
	ScopeDay:      true,
	ScopeWeek:     true,
	ScopeMonth:    true,
	ScopeLifetime: true,
	ScopeSolo:     true,
	ScopeSquad:    true,
}

// ParseScope reports whether raw names a known scope.
func ParseScope(raw string) (Scope, bool) {
	s := Scope(strings.ToLower(strings.TrimSpace(raw)))
	return s, validScopes[s]
}

// SortDir is the sort direction, "asc" or "desc".
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ParseSortDir defaults anything that is not "asc" to "desc".
func ParseSortDir(raw string) SortDir {
	if strings.ToLower(strings.TrimSpace(raw)) == "asc" {
		return SortAsc
	}
	return SortDesc
}

// SortField is one of the enumerated sortable leaderboard columns. The
// values match the raw stat submission field names.
type SortField string

const (
	SortKills       SortField = "Kills"
	SortAccuracy    SortField = "Accuracy"
	SortShotsFired  SortField = "Shots Fired"
	SortShotsHit    SortField = "Shots Hit"
	SortDeaths      SortField = "Deaths"
	SortMeleeKills  SortField = "Melee Kills"
	SortStimsUsed   SortField = "Stims Used"
	SortStratsUsed  SortField = "Strats Used"
	SortPlayerName  SortField = "player_name"
	SortClanName    SortField = "clan_name"
	SortSubmittedAt SortField = "submitted_at"

	// Lifetime-only per-submission averages.
	SortAvgKills      SortField = "Avg Kills"
	SortAvgShotsFired SortField = "Avg Shots Fired"
	SortAvgShotsHit   SortField = "Avg Shots Hit"
	SortAvgDeaths     SortField = "Avg Deaths"
)

// ValidSortFields lists every accepted sortBy value.
var ValidSortFields = []SortField{
	SortKills, SortAccuracy, SortShotsFired, SortShotsHit, SortDeaths,
	SortMeleeKills, SortStimsUsed, SortStratsUsed,
	SortPlayerName, SortClanName, SortSubmittedAt,
	SortAvgKills, SortAvgShotsFired, SortAvgShotsHit, SortAvgDeaths,
}

// ParseSortField silently falls back to Kills for unknown values.
func ParseSortField(raw string) SortField {
	f := SortField(raw)
	for _, v := range ValidSortFields {
		if f == v {
			return f
		}
	}
	return SortKills
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Query is the full shape of one leaderboard request. Month and Year
// are zero when unspecified.
type Query struct {
	SortBy  SortField
	SortDir SortDir
	Limit   int
	Scope   Scope
	Month   int
	Year    int
}

// Normalize clamps and defaults every field. Month/year defaults come
// from now (UTC) and only apply to the month scope.
func (q Query) Normalize(now time.Time) Query {
	q.SortBy = ParseSortField(string(q.SortBy))
	q.SortDir = ParseSortDir(string(q.SortDir))

	if q.Limit <= 0 {
		q.Limit = defaultLimit
	} else if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	if _, ok := ParseScope(string(q.Scope)); !ok {
		q.Scope = ScopeMonth
	}

	if q.Scope == ScopeMonth {
		if q.Month < 1 || q.Month > 12 {
			q.Month = int(now.UTC().Month())
		}
		if q.Year < 1970 {
			q.Year = now.UTC().Year()
		} else if q.Year > 9999 {
			q.Year = 9999
		}
	} else {
		// Date parameters only apply to the month scope.
		q.Month = 0
		q.Year = 0
	}

	return q
}

// CacheKey is a deterministic serialization of the full query shape.
func (q Query) CacheKey() string {
	return fmt.Sprintf("sortBy=%s&sortDir=%s&limit=%d&scope=%s&month=%d&year=%d",
		q.SortBy, q.SortDir, q.Limit, q.Scope, q.Month, q.Year)
}

// monthRange returns the [start, end) UTC bounds of a calendar month.
func monthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
