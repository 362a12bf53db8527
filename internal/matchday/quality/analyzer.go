// internal/matchday/quality/analyzer.go

// Package quality scores round partitions after the fact. The builder
// closes rounds greedily without looking ahead, so the analyzer exists
// as an independent check: it recomputes per-round team sets, verifies
// the no-repeat invariant, and measures how often the greedy choices
// produced rounds of the expected size.
package quality

import (
	"fmt"
	"sort"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/metrics"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/rounds"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// DefaultGoodThreshold is the perfect-round fraction at or above which a
// tournament-season is classified "good".
const DefaultGoodThreshold = 0.80

// Analyzer produces one QualityRecord per tournament-season.
type Analyzer struct {
	goodThreshold float64
	log           logger.Logger
}

func NewAnalyzer(goodThreshold float64, log logger.Logger) *Analyzer {
	if goodThreshold <= 0 || goodThreshold > 1 {
		goodThreshold = DefaultGoodThreshold
	}
	return &Analyzer{goodThreshold: goodThreshold, log: log}
}

// Analyze recomputes per-round conflict checks and completeness for one
// season's build result.
func (a *Analyzer) Analyze(res rounds.BuildResult) models.QualityRecord {
	record := models.QualityRecord{
		Season:           res.Season,
		TeamCount:        res.TeamCount,
		TotalMatches:     len(res.Matches),
		Unassigned:       res.Unassigned,
		ExpectedPerRound: res.ExpectedPerRound,
	}

	perRound := make(map[int][]models.Match)
	for _, m := range res.Matches {
		if m.Round == models.UnassignedRound {
			continue
		}
		perRound[m.Round] = append(perRound[m.Round], m)
	}

	numbers := make([]int, 0, len(perRound))
	for r := range perRound {
		numbers = append(numbers, r)
	}
	sort.Ints(numbers)

	for _, r := range numbers {
		ms := perRound[r]
		teams := make(map[string]int, len(ms)*2)
		for _, m := range ms {
			teams[m.Home]++
			teams[m.Away]++
		}

		var repeated []string
		for team, count := range teams {
			if count > 1 {
				repeated = append(repeated, team)
			}
		}
		sort.Strings(repeated)

		// A repeated team should be impossible by construction; finding
		// one means a bug upstream, reported rather than crashed on.
		for _, team := range repeated {
			record.Violations = append(record.Violations,
				fmt.Sprintf("round %d: %s", r, team))
			vErr := errors.NewIntegrityViolationError(res.Season.Key(), r, team)
			a.log.WithError(vErr).Error("integrity violation detected", map[string]interface{}{
				"season": res.Season.Key(),
				"round":  r,
				"team":   team,
			})
		}

		perfect := len(ms) == res.ExpectedPerRound && len(repeated) == 0
		if perfect {
			record.PerfectRounds++
		}
		record.Rounds = append(record.Rounds, models.RoundDetail{
			Round:         r,
			MatchCount:    len(ms),
			Expected:      res.ExpectedPerRound,
			TeamCount:     len(teams),
			RepeatedTeams: repeated,
			Perfect:       perfect,
		})
	}

	record.TotalRounds = len(numbers)
	if record.TotalRounds > 0 {
		record.PerfectFraction = float64(record.PerfectRounds) / float64(record.TotalRounds)
	}
	record.Classification = a.classify(record)

	return record
}

// AnalyzeAll scores every season and folds integrity violations into the
// defect list alongside the builder's own defects.
func (a *Analyzer) AnalyzeAll(results []rounds.BuildResult) ([]models.QualityRecord, []models.Defect) {
	records := make([]models.QualityRecord, 0, len(results))
	var defects []models.Defect

	for _, res := range results {
		record := a.Analyze(res)
		records = append(records, record)
		for _, violation := range record.Violations {
			defects = append(defects, models.Defect{
				Code:   string(errors.ErrCodeIntegrityViolation),
				Detail: fmt.Sprintf("%s: %s", record.Season.Key(), violation),
			})
			metrics.DataDefects.WithLabelValues(string(errors.ErrCodeIntegrityViolation)).Inc()
		}
	}

	return records, defects
}

func (a *Analyzer) classify(record models.QualityRecord) models.Classification {
	switch {
	case record.TotalRounds == 0:
		return models.ClassOther
	case record.PerfectRounds == record.TotalRounds:
		return models.ClassPerfect
	case record.PerfectFraction >= a.goodThreshold:
		return models.ClassGood
	default:
		return models.ClassOther
	}
}
