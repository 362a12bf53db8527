// internal/matchday/rounds/processor.go
package rounds

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/metrics"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/partition"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// Cache is an optional lookaside for per-season round assignments. The
// builder is deterministic, so a cached assignment for the same sorted
// match list is exact, never approximate.
type Cache interface {
	Lookup(ctx context.Context, group partition.Group) ([]int, bool)
	Store(ctx context.Context, group partition.Group, assignment []int)
}

// Processor runs the round builder over every tournament-season group.
// Groups share no mutable state, so they are processed on a bounded pool
// of workers, each writing into its own result slot.
type Processor struct {
	policy  ClosingPolicy
	workers int
	cache   Cache
	log     logger.Logger
}

// Option customizes a Processor.
type Option func(*Processor)

// WithPolicy replaces the default greedy closing policy.
func WithPolicy(p ClosingPolicy) Option {
	return func(proc *Processor) { proc.policy = p }
}

// WithWorkers bounds concurrency; n <= 0 means one worker per CPU.
func WithWorkers(n int) Option {
	return func(proc *Processor) { proc.workers = n }
}

// WithCache plugs in an assignment cache.
func WithCache(c Cache) Option {
	return func(proc *Processor) { proc.cache = c }
}

func NewProcessor(log logger.Logger, opts ...Option) *Processor {
	proc := &Processor{
		policy: GreedyClosing,
		log:    log,
	}
	for _, opt := range opts {
		opt(proc)
	}
	if proc.workers <= 0 {
		proc.workers = runtime.GOMAXPROCS(0)
	}
	return proc
}

// Result is the concatenated output of one processing run.
type Result struct {
	// Seasons holds one BuildResult per group, in group order.
	Seasons []BuildResult

	// Matches is the concatenation of every season's annotated matches,
	// preserving per-season chronological order.
	Matches []models.Match

	// Defects collects the invalid-match defects of every season.
	Defects []models.Defect
}

// Run processes all groups and merges results in group order. Each
// worker owns a fixed output slot, so no locking is needed beyond the
// work queue itself.
func (p *Processor) Run(ctx context.Context, groups []partition.Group) Result {
	results := make([]BuildResult, len(groups))

	indices := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(groups) {
		workers = len(groups)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				results[idx] = p.processGroup(ctx, groups[idx])
			}
		}()
	}

	for idx := range groups {
		indices <- idx
	}
	close(indices)
	wg.Wait()

	var out Result
	out.Seasons = results
	for _, res := range results {
		out.Matches = append(out.Matches, res.Matches...)
		out.Defects = append(out.Defects, res.Defects...)
	}
	return out
}

func (p *Processor) processGroup(ctx context.Context, group partition.Group) BuildResult {
	start := time.Now()
	cached := false

	var res BuildResult
	if p.cache != nil {
		if assignment, ok := p.cache.Lookup(ctx, group); ok && len(assignment) == len(group.Matches) {
			res = applyAssignment(group, assignment)
			cached = true
		}
	}
	if !cached {
		res = Build(group, p.policy)
		if p.cache != nil {
			p.cache.Store(ctx, group, res.Assignment)
		}
	}

	tournament := group.Season.Tournament
	metrics.SeasonsProcessed.Inc()
	metrics.MatchesProcessed.WithLabelValues(tournament).Add(float64(len(group.Matches)))
	metrics.MatchesUnassigned.WithLabelValues(tournament).Add(float64(res.Unassigned))
	metrics.RoundsBuilt.WithLabelValues(tournament).Add(float64(res.TotalRounds))
	metrics.SeasonDuration.WithLabelValues(tournament).Observe(time.Since(start).Seconds())
	for _, d := range res.Defects {
		metrics.DataDefects.WithLabelValues(d.Code).Inc()
	}

	p.log.Info("season processed", map[string]interface{}{
		"season":    group.Season.Key(),
		"teams":     res.TeamCount,
		"matches":   len(group.Matches),
		"expected":  res.ExpectedPerRound,
		"rounds":    res.TotalRounds,
		"unassigned": res.Unassigned,
		"cached":    cached,
	})
	if res.Unassigned > 0 {
		p.log.Warn("matches could not be assigned to proper rounds", map[string]interface{}{
			"season":     group.Season.Key(),
			"unassigned": res.Unassigned,
		})
	}

	return res
}
