// internal/matchday/rounds/builder.go

// Package rounds assigns round numbers to the chronologically sorted
// matches of one tournament-season, and drives that assignment across
// every season of a dataset.
//
// The builder is a greedy single pass with eager round closing:
//
//  1. Walk matches in chronological order with an open round buffer.
//  2. A match joins the open round when neither of its teams is already
//     in it and the round is not full; otherwise the round closes as-is
//     (full or not) and the match gets one attempt in the fresh round.
//  3. A match that cannot be placed even in a fresh round is tagged
//     with round -1 instead of looping.
//  4. The trailing non-empty buffer closes under the current number.
//
// Round sizes are therefore not guaranteed to hit the expected
// floor(teams/2); the quality analyzer measures how often they do.
package rounds

import (
	"fmt"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/partition"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// BuildResult is the annotated output for one tournament-season.
type BuildResult struct {
	Season models.TournamentSeason

	// Matches holds the group's valid matches in chronological order
	// with Round set (>= 1 or models.UnassignedRound).
	Matches []models.Match

	// Assignment mirrors the input group: one round number per input
	// match, 0 for matches excluded as invalid. This is the unit the
	// assignment cache stores.
	Assignment []int

	TotalRounds      int
	Unassigned       int
	TeamCount        int
	ExpectedPerRound int

	// Defects lists invalid matches (identical home and away team).
	Defects []models.Defect
}

// Build partitions one season's sorted matches into rounds using the
// given closing policy. A nil policy falls back to GreedyClosing.
func Build(group partition.Group, policy ClosingPolicy) BuildResult {
	if policy == nil {
		policy = GreedyClosing
	}

	res := BuildResult{
		Season:     group.Season,
		Assignment: make([]int, len(group.Matches)),
	}

	valid := make([]models.Match, 0, len(group.Matches))
	validIdx := make([]int, 0, len(group.Matches))
	for i, m := range group.Matches {
		if m.Home == m.Away {
			res.Defects = append(res.Defects, invalidMatchDefect(m))
			continue
		}
		valid = append(valid, m)
		validIdx = append(validIdx, i)
	}

	res.TeamCount = len(models.TeamRoster(valid))
	res.ExpectedPerRound = models.ExpectedMatchesPerRound(res.TeamCount)
	if res.TeamCount < 2 {
		// Trivial season: nothing to partition.
		return res
	}

	state := RoundState{
		UsedTeams: make(map[string]struct{}),
		Expected:  res.ExpectedPerRound,
	}
	current := 1
	highest := 0

	place := func(m *models.Match) {
		m.Round = current
		state.UsedTeams[m.Home] = struct{}{}
		state.UsedTeams[m.Away] = struct{}{}
		state.Size++
		if current > highest {
			highest = current
		}
	}

	for i := range valid {
		m := &valid[i]
		if !policy(state, *m) {
			place(m)
			continue
		}

		// Close the round as-is and retry once in the fresh one. Closing
		// an empty buffer would emit an empty round, so only advance the
		// counter when something was actually buffered.
		if state.Size > 0 {
			current++
			state.UsedTeams = make(map[string]struct{})
			state.Size = 0
		}
		if !policy(state, *m) {
			place(m)
		} else {
			m.Round = models.UnassignedRound
			res.Unassigned++
		}
	}

	res.Matches = valid
	res.TotalRounds = highest
	for i, m := range valid {
		res.Assignment[validIdx[i]] = m.Round
	}

	return res
}

// applyAssignment rebuilds a BuildResult from a previously computed
// round assignment, regenerating defects for excluded matches.
func applyAssignment(group partition.Group, assignment []int) BuildResult {
	res := BuildResult{
		Season:     group.Season,
		Assignment: assignment,
	}

	valid := make([]models.Match, 0, len(group.Matches))
	for i, m := range group.Matches {
		if assignment[i] == 0 {
			res.Defects = append(res.Defects, invalidMatchDefect(m))
			continue
		}
		m.Round = assignment[i]
		if m.Round == models.UnassignedRound {
			res.Unassigned++
		} else if m.Round > res.TotalRounds {
			res.TotalRounds = m.Round
		}
		valid = append(valid, m)
	}

	res.Matches = valid
	res.TeamCount = len(models.TeamRoster(valid))
	res.ExpectedPerRound = models.ExpectedMatchesPerRound(res.TeamCount)

	return res
}

func invalidMatchDefect(m models.Match) models.Defect {
	err := errors.NewInvalidMatchError(m.ID,
		fmt.Sprintf("home equals away: %s on %s", m.Home, m.RawDate))
	return models.Defect{
		Code:    string(err.Code),
		MatchID: m.ID,
		Detail:  err.Details,
	}
}
