// internal/matchday/quality/report.go
package quality

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// maxDefectSamples bounds how many raw defect lines the report prints
// per error code.
const maxDefectSamples = 5

// Report is the rendered-ready quality summary of one run.
type Report struct {
	RunID       string
	GeneratedAt time.Time

	// Records are ranked by perfect-round fraction descending, ties
	// broken by ascending unassigned count, then tournament key, then
	// season label.
	Records []models.QualityRecord
	Defects []models.Defect

	Overall OverallStats
}

// OverallStats aggregates every tournament-season of the run.
type OverallStats struct {
	Tournaments        int
	TotalMatches       int
	TotalRounds        int
	PerfectRounds      int
	PerfectPercentage  float64
	UnassignedMatches  int
	PerfectTournaments int
	GoodTournaments    int
}

// NewReport ranks the records and computes aggregate statistics.
func NewReport(runID string, generatedAt time.Time, records []models.QualityRecord, defects []models.Defect) *Report {
	ranked := make([]models.QualityRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PerfectFraction != b.PerfectFraction {
			return a.PerfectFraction > b.PerfectFraction
		}
		if a.Unassigned != b.Unassigned {
			return a.Unassigned < b.Unassigned
		}
		if a.Season.Tournament != b.Season.Tournament {
			return a.Season.Tournament < b.Season.Tournament
		}
		return a.Season.Season < b.Season.Season
	})

	r := &Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Records:     ranked,
		Defects:     defects,
	}
	r.Overall = overall(ranked)
	return r
}

func overall(records []models.QualityRecord) OverallStats {
	var stats OverallStats
	stats.Tournaments = len(records)
	for _, rec := range records {
		stats.TotalMatches += rec.TotalMatches
		stats.TotalRounds += rec.TotalRounds
		stats.PerfectRounds += rec.PerfectRounds
		stats.UnassignedMatches += rec.Unassigned
		switch rec.Classification {
		case models.ClassPerfect:
			stats.PerfectTournaments++
		case models.ClassGood:
			stats.GoodTournaments++
		}
	}
	if stats.TotalRounds > 0 {
		stats.PerfectPercentage = float64(stats.PerfectRounds) / float64(stats.TotalRounds) * 100
	}
	return stats
}

// Render writes the markdown report.
func (r *Report) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Matchday Organization Quality Report\n\n")
	fmt.Fprintf(&b, "- **Run**: %s\n", r.RunID)
	fmt.Fprintf(&b, "- **Generated**: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Overall Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Tournaments**: %d\n", r.Overall.Tournaments)
	fmt.Fprintf(&b, "- **Total Matches**: %d\n", r.Overall.TotalMatches)
	fmt.Fprintf(&b, "- **Total Rounds**: %d\n", r.Overall.TotalRounds)
	fmt.Fprintf(&b, "- **Perfect Rounds**: %d\n", r.Overall.PerfectRounds)
	fmt.Fprintf(&b, "- **Overall Quality**: %.1f%%\n", r.Overall.PerfectPercentage)
	fmt.Fprintf(&b, "- **Unassigned Matches**: %d\n", r.Overall.UnassignedMatches)
	fmt.Fprintf(&b, "- **Perfect Tournaments**: %d\n", r.Overall.PerfectTournaments)
	fmt.Fprintf(&b, "- **Good Tournaments (80%%+)**: %d\n\n", r.Overall.GoodTournaments)

	b.WriteString("## Tournament Quality Ranking\n\n")
	b.WriteString("| Rank | Tournament | Season | Class | Quality | Perfect Rounds | Total Rounds | Unassigned |\n")
	b.WriteString("|------|------------|--------|-------|---------|----------------|--------------|------------|\n")
	for i, rec := range r.Records {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %.1f%% | %d | %d | %d |\n",
			i+1, rec.Season.Tournament, rec.Season.Season, rec.Classification,
			rec.PerfectFraction*100, rec.PerfectRounds, rec.TotalRounds, rec.Unassigned)
	}

	r.renderDefects(&b)
	r.renderDetails(&b)

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) renderDefects(b *strings.Builder) {
	if len(r.Defects) == 0 {
		return
	}

	byCode := make(map[string][]models.Defect)
	var codes []string
	for _, d := range r.Defects {
		if _, ok := byCode[d.Code]; !ok {
			codes = append(codes, d.Code)
		}
		byCode[d.Code] = append(byCode[d.Code], d)
	}
	sort.Strings(codes)

	b.WriteString("\n## Data Quality Defects\n\n")
	for _, code := range codes {
		defects := byCode[code]
		fmt.Fprintf(b, "### %s (%d)\n\n", code, len(defects))
		limit := len(defects)
		if limit > maxDefectSamples {
			limit = maxDefectSamples
		}
		for _, d := range defects[:limit] {
			if d.MatchID != "" {
				fmt.Fprintf(b, "- `%s`: %s\n", d.MatchID, d.Detail)
			} else {
				fmt.Fprintf(b, "- %s\n", d.Detail)
			}
		}
		if limit < len(defects) {
			fmt.Fprintf(b, "- ... %d more\n", len(defects)-limit)
		}
		b.WriteString("\n")
	}
}

func (r *Report) renderDetails(b *strings.Builder) {
	b.WriteString("\n## Detailed Analysis\n\n")

	any := false
	for _, rec := range r.Records {
		if rec.Classification == models.ClassPerfect {
			continue
		}
		any = true

		fmt.Fprintf(b, "### %s %s\n\n", rec.Season.Tournament, rec.Season.Season)
		fmt.Fprintf(b, "- **Quality**: %.1f%%\n", rec.PerfectFraction*100)
		fmt.Fprintf(b, "- **Teams**: %d\n", rec.TeamCount)
		fmt.Fprintf(b, "- **Expected matches per round**: %d\n", rec.ExpectedPerRound)
		if rec.Unassigned > 0 {
			fmt.Fprintf(b, "- **Unassigned matches**: %d\n", rec.Unassigned)
		}

		var problematic []models.RoundDetail
		for _, rd := range rec.Rounds {
			if !rd.Perfect {
				problematic = append(problematic, rd)
			}
		}
		if len(problematic) > 0 {
			b.WriteString("\n**Problematic Rounds:**\n\n")
			for _, rd := range problematic {
				fmt.Fprintf(b, "- Round %d: %d matches (expected %d)",
					rd.Round, rd.MatchCount, rd.Expected)
				if len(rd.RepeatedTeams) > 0 {
					fmt.Fprintf(b, " - **repeated teams: %s**", strings.Join(rd.RepeatedTeams, ", "))
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if !any {
		b.WriteString("All tournament-seasons produced perfect rounds.\n")
	}
}
