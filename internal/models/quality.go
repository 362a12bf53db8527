// internal/models/quality.go
package models

// Classification buckets a tournament-season by its perfect-round share.
type Classification string

const (
	ClassPerfect Classification = "perfect" // 100% perfect rounds
	ClassGood    Classification = "good"    // >= 80% perfect rounds
	ClassOther   Classification = "other"
)

// RoundDetail is the per-round breakdown produced by the quality analyzer.
type RoundDetail struct {
	Round         int
	MatchCount    int
	Expected      int
	TeamCount     int
	RepeatedTeams []string
	Perfect       bool
}

// QualityRecord scores the round partition of one tournament-season.
type QualityRecord struct {
	Season           TournamentSeason
	TeamCount        int
	TotalMatches     int
	TotalRounds      int
	PerfectRounds    int
	PerfectFraction  float64
	Unassigned       int
	ExpectedPerRound int
	Classification   Classification

	// Rounds holds one entry per placed round, ascending by round number.
	Rounds []RoundDetail

	// Violations lists teams found twice within a single round. Populated
	// only when the builder's invariant was broken upstream.
	Violations []string
}

// Defect is a per-match or per-round data-quality problem. Defects are
// reported, never fatal: processing of other seasons continues.
type Defect struct {
	Code    string
	MatchID string
	Line    int
	Detail  string
}
