// internal/matchday/organize/organize.go

// Package organize produces the final ordering of the annotated dataset:
// tournament, then season, then round, then intra-round chronology.
package organize

import (
	"sort"
	"strconv"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/partition"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// Organize returns a sorted copy of the annotated match collection. Sort
// keys: tournament key (lexicographic), season label (earlier season
// first), round number (ascending, unassigned last), then the same
// chronological order the partitioner uses. The sort is stable, so equal
// keys keep their input order.
func Organize(matches []models.Match) []models.Match {
	out := make([]models.Match, len(matches))
	copy(out, matches)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Tournament != b.Tournament {
			return a.Tournament < b.Tournament
		}
		if a.Season != b.Season {
			ay, by := seasonStartYear(a.Season), seasonStartYear(b.Season)
			if ay != by {
				return ay < by
			}
			return a.Season < b.Season
		}
		if a.Round != b.Round {
			return roundRank(a.Round) < roundRank(b.Round)
		}
		return partition.Before(a, b)
	})

	return out
}

// roundRank pushes unassigned matches behind every numbered round.
func roundRank(round int) int {
	if round == models.UnassignedRound {
		return int(^uint(0) >> 1)
	}
	return round
}

// seasonStartYear reads the leading year of a season label ("2015-2016"
// or "2020"). Unparseable labels sort first.
func seasonStartYear(label string) int {
	if len(label) < 4 {
		return 0
	}
	year, err := strconv.Atoi(label[:4])
	if err != nil {
		return 0
	}
	return year
}
