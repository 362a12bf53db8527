// internal/matchday/quality/analyzer_test.go
package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/rounds"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

func testSeason() models.TournamentSeason {
	return models.TournamentSeason{Tournament: "test-league", Season: "2020"}
}

// annotated builds a BuildResult from (home, away, round) triples.
func annotated(expected int, entries []struct {
	home, away string
	round      int
}) rounds.BuildResult {
	res := rounds.BuildResult{
		Season:           testSeason(),
		ExpectedPerRound: expected,
	}
	roster := make(map[string]struct{})
	for _, e := range entries {
		res.Matches = append(res.Matches, models.Match{
			Home: e.home, Away: e.away, Round: e.round,
		})
		roster[e.home] = struct{}{}
		roster[e.away] = struct{}{}
		if e.round == models.UnassignedRound {
			res.Unassigned++
		} else if e.round > res.TotalRounds {
			res.TotalRounds = e.round
		}
	}
	res.TeamCount = len(roster)
	return res
}

func TestAnalyze_PerfectSeason(t *testing.T) {
	res := annotated(2, []struct {
		home, away string
		round      int
	}{
		{"A", "B", 1}, {"C", "D", 1},
		{"A", "C", 2}, {"B", "D", 2},
	})

	a := NewAnalyzer(DefaultGoodThreshold, logger.NewTestLogger(t))
	record := a.Analyze(res)

	assert.Equal(t, 2, record.TotalRounds)
	assert.Equal(t, 2, record.PerfectRounds)
	assert.Equal(t, 1.0, record.PerfectFraction)
	assert.Equal(t, models.ClassPerfect, record.Classification)
	assert.Empty(t, record.Violations)
}

func TestAnalyze_ShortRoundNotPerfect(t *testing.T) {
	res := annotated(2, []struct {
		home, away string
		round      int
	}{
		{"A", "B", 1},
		{"A", "C", 2}, {"B", "D", 2},
	})

	a := NewAnalyzer(DefaultGoodThreshold, logger.NewTestLogger(t))
	record := a.Analyze(res)

	require.Len(t, record.Rounds, 2)
	assert.False(t, record.Rounds[0].Perfect)
	assert.True(t, record.Rounds[1].Perfect)
	assert.Equal(t, models.ClassOther, record.Classification)
}

func TestAnalyze_DetectsIntegrityViolation(t *testing.T) {
	// A team repeated within one round can only come from an upstream
	// bug; the analyzer must flag it, not crash.
	res := annotated(2, []struct {
		home, away string
		round      int
	}{
		{"A", "B", 1}, {"A", "C", 1},
	})

	a := NewAnalyzer(DefaultGoodThreshold, logger.NewNoOpLogger())
	record := a.Analyze(res)

	require.Len(t, record.Violations, 1)
	assert.Equal(t, "round 1: A", record.Violations[0])
	assert.False(t, record.Rounds[0].Perfect)

	_, defects := a.AnalyzeAll([]rounds.BuildResult{res})
	require.Len(t, defects, 1)
	assert.Equal(t, string(errors.ErrCodeIntegrityViolation), defects[0].Code)
}

func TestAnalyze_UnassignedExcludedFromRounds(t *testing.T) {
	res := annotated(2, []struct {
		home, away string
		round      int
	}{
		{"A", "B", 1}, {"C", "D", 1},
		{"A", "C", models.UnassignedRound},
	})

	a := NewAnalyzer(DefaultGoodThreshold, logger.NewTestLogger(t))
	record := a.Analyze(res)

	assert.Equal(t, 1, record.TotalRounds)
	assert.Equal(t, 1, record.Unassigned)
	assert.Equal(t, models.ClassPerfect, record.Classification)
}

func TestAnalyze_ZeroRoundsClassifiedOther(t *testing.T) {
	a := NewAnalyzer(DefaultGoodThreshold, logger.NewTestLogger(t))
	record := a.Analyze(rounds.BuildResult{Season: testSeason()})

	assert.Zero(t, record.TotalRounds)
	assert.Zero(t, record.PerfectFraction)
	assert.Equal(t, models.ClassOther, record.Classification)
}

func TestClassificationBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		perfect int
		total   int
		want    models.Classification
	}{
		{name: "exactly 100 percent", perfect: 5, total: 5, want: models.ClassPerfect},
		{name: "exactly 80 percent", perfect: 4, total: 5, want: models.ClassGood},
		{name: "just below 80 percent", perfect: 799, total: 1000, want: models.ClassOther},
		{name: "just above 80 percent", perfect: 801, total: 1000, want: models.ClassGood},
		{name: "zero perfect", perfect: 0, total: 3, want: models.ClassOther},
	}

	a := NewAnalyzer(DefaultGoodThreshold, logger.NewNoOpLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.QualityRecord{
				TotalRounds:     tt.total,
				PerfectRounds:   tt.perfect,
				PerfectFraction: float64(tt.perfect) / float64(tt.total),
			}
			assert.Equal(t, tt.want, a.classify(record))
		})
	}
}

func TestNewAnalyzer_InvalidThresholdFallsBack(t *testing.T) {
	a := NewAnalyzer(0, logger.NewNoOpLogger())
	assert.Equal(t, DefaultGoodThreshold, a.goodThreshold)

	a = NewAnalyzer(1.5, logger.NewNoOpLogger())
	assert.Equal(t, DefaultGoodThreshold, a.goodThreshold)
}
