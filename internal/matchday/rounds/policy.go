// internal/matchday/rounds/policy.go
package rounds

import "github.com/Joaomdsc1/scrape-tournament-matches/internal/models"

// RoundState is the view of the open round a closing policy decides on.
type RoundState struct {
	// UsedTeams holds every team already playing in the open round.
	UsedTeams map[string]struct{}

	// Size is the number of matches buffered in the open round.
	Size int

	// Expected is the target match count for a full round.
	Expected int
}

// ClosingPolicy decides whether the open round must close before the
// candidate match can be considered for placement. It must be a pure
// function of its arguments so that alternative heuristics can be
// benchmarked through the quality analyzer without touching the rest of
// the pipeline.
type ClosingPolicy func(state RoundState, next models.Match) bool

// GreedyClosing closes the round as soon as it is full or the candidate
// shares a team with it. Eager closing trades optimality for a
// deterministic linear single pass.
func GreedyClosing(state RoundState, next models.Match) bool {
	if state.Size >= state.Expected {
		return true
	}
	if _, ok := state.UsedTeams[next.Home]; ok {
		return true
	}
	if _, ok := state.UsedTeams[next.Away]; ok {
		return true
	}
	return false
}
