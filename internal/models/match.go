// internal/models/match.go
package models

import "time"

// UnassignedRound marks a match the round builder could not place.
const UnassignedRound = -1

// Match is one fixture of a tournament-season. Source fields are
// read-only inputs; the engine only ever sets Round.
type Match struct {
	// ID is the raw composite identifier, e.g.
	// "bundesliga@/football/germany/bundesliga-2015-2016/".
	ID string

	// Tournament and Season are parsed out of ID during partitioning.
	Tournament string
	Season     string

	// Date is the parsed calendar date; RawDate keeps the source string
	// so output files round-trip unchanged.
	Date    time.Time
	RawDate string

	// DateNumber is the optional intra-day sequence number used to break
	// ties between matches played on the same date.
	DateNumber    int
	HasDateNumber bool

	Home string
	Away string

	// Result is opaque to the engine and passed through unchanged.
	Result string

	// Round is >= 1 once placed, UnassignedRound when the builder gave
	// up on the match, and 0 before assignment.
	Round int
}

// TournamentSeason identifies the unit of independent processing.
type TournamentSeason struct {
	Tournament string
	Season     string
}

// Key returns the combined identifier used in logs, reports and cache keys.
func (ts TournamentSeason) Key() string {
	return ts.Tournament + "_" + ts.Season
}

// TeamRoster returns the distinct team names appearing as home or away
// across the given matches.
func TeamRoster(matches []Match) map[string]struct{} {
	roster := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		roster[m.Home] = struct{}{}
		roster[m.Away] = struct{}{}
	}
	return roster
}

// ExpectedMatchesPerRound is floor(teamCount/2): with an odd roster one
// team rests every round.
func ExpectedMatchesPerRound(teamCount int) int {
	return teamCount / 2
}
