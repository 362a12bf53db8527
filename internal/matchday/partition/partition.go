// internal/matchday/partition/partition.go

// Package partition groups matches by tournament-season and orders each
// group chronologically, producing the slices the round builder consumes.
package partition

import (
	"fmt"
	"sort"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/identifier"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// Group is one tournament-season with its matches sorted chronologically.
type Group struct {
	Season  models.TournamentSeason
	Matches []models.Match
}

// Split partitions matches into per-tournament-season groups. Matches
// with an unparseable identifier or a missing date are excluded and
// returned as defects; everything else lands in exactly one group.
// Groups come back sorted by tournament key, then season label, so a
// given dataset always yields the same group order.
func Split(matches []models.Match) ([]Group, []models.Defect) {
	groups := make(map[models.TournamentSeason][]models.Match)
	var defects []models.Defect

	for _, m := range matches {
		parsed, err := identifier.Parse(m.ID)
		if err != nil {
			defects = append(defects, models.Defect{
				Code:    string(errors.ErrCodeMalformedIdentifier),
				MatchID: m.ID,
				Detail:  fmt.Sprintf("%s vs %s on %s", m.Home, m.Away, m.RawDate),
			})
			continue
		}
		if m.Date.IsZero() {
			invalid := errors.NewInvalidMatchError(m.ID,
				fmt.Sprintf("missing date for %s vs %s", m.Home, m.Away))
			defects = append(defects, models.Defect{
				Code:    string(invalid.Code),
				MatchID: m.ID,
				Detail:  invalid.Details,
			})
			continue
		}

		m.Tournament = parsed.Tournament
		m.Season = parsed.Season
		key := models.TournamentSeason{Tournament: parsed.Tournament, Season: parsed.Season}
		groups[key] = append(groups[key], m)
	}

	out := make([]Group, 0, len(groups))
	for key, ms := range groups {
		SortChronologically(ms)
		out = append(out, Group{Season: key, Matches: ms})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season.Tournament != out[j].Season.Tournament {
			return out[i].Season.Tournament < out[j].Season.Tournament
		}
		return out[i].Season.Season < out[j].Season.Season
	})

	return out, defects
}

// SortChronologically orders matches by date ascending, breaking same-date
// ties with the intra-day sequence number. Matches without a sequence
// number sort after those with one on the same date, keeping their
// original relative order (stable sort).
func SortChronologically(matches []models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return Before(matches[i], matches[j])
	})
}

// Before reports whether a is chronologically earlier than b under the
// ordering used throughout the engine.
func Before(a, b models.Match) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.HasDateNumber != b.HasDateNumber {
		return a.HasDateNumber
	}
	if a.HasDateNumber && b.HasDateNumber {
		return a.DateNumber < b.DateNumber
	}
	return false
}
