// cmd/matchday-organizer/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/cache"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/config"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/database"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/dataset"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/organize"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/partition"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/quality"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/rounds"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	zapLog.Info("Starting matchday organizer",
		zap.String("runId", runID),
		zap.String("input", cfg.Dataset.InputPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Load input dataset ---
	matches, loadDefects, err := dataset.Load(cfg.Dataset.InputPath)
	if err != nil {
		zapLog.Fatal("dataset load failed", zap.Error(err))
	}
	zapLog.Info("Dataset loaded",
		zap.Int("matches", len(matches)),
		zap.Int("defects", len(loadDefects)),
	)

	// --- Partition into tournament-season groups ---
	groups, splitDefects := partition.Split(matches)
	zapLog.Info("Dataset partitioned",
		zap.Int("seasons", len(groups)),
		zap.Int("defects", len(splitDefects)),
	)

	// --- Optional Redis-backed assignment cache ---
	var assignmentCache rounds.Cache
	if cfg.Database.Redis.Enabled {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else if err := redisClient.Ping(ctx); err != nil {
			zapLog.Warn("redis unreachable, continuing without cache", zap.Error(err))
			redisClient.Close()
		} else {
			defer redisClient.Close()
			ttl := time.Duration(cfg.Database.Redis.TTLMinutes) * time.Minute
			assignmentCache = cache.New(redisClient, ttl, log)
			zapLog.Info("Assignment cache enabled", zap.Duration("ttl", ttl))
		}
	}

	// --- Build rounds ---
	opts := []rounds.Option{rounds.WithWorkers(cfg.Engine.Workers)}
	if assignmentCache != nil {
		opts = append(opts, rounds.WithCache(assignmentCache))
	}
	processor := rounds.NewProcessor(log, opts...)
	result := processor.Run(ctx, groups)
	zapLog.Info("Rounds built", zap.Int("seasons", len(result.Seasons)))

	// --- Analyze quality and render report ---
	analyzer := quality.NewAnalyzer(cfg.Engine.GoodThreshold, log)
	records, analysisDefects := analyzer.AnalyzeAll(result.Seasons)

	var defects []models.Defect
	defects = append(defects, loadDefects...)
	defects = append(defects, splitDefects...)
	defects = append(defects, result.Defects...)
	defects = append(defects, analysisDefects...)

	report := quality.NewReport(runID, time.Now().UTC(), records, defects)
	if err := writeReport(cfg.Dataset.ReportPath, report); err != nil {
		zapLog.Fatal("report write failed", zap.Error(err))
	}
	zapLog.Info("Report written",
		zap.String("path", cfg.Dataset.ReportPath),
		zap.Int("perfect", report.Overall.PerfectTournaments),
		zap.Int("good", report.Overall.GoodTournaments),
		zap.Int("unassigned", report.Overall.UnassignedMatches),
	)

	// --- Write annotated dataset ---
	organized := organize.Organize(result.Matches)
	if err := dataset.Write(cfg.Dataset.OutputPath, organized); err != nil {
		zapLog.Fatal("output write failed", zap.Error(err))
	}
	zapLog.Info("Annotated dataset written",
		zap.String("path", cfg.Dataset.OutputPath),
		zap.Int("matches", len(organized)),
	)

	// --- Optional PostgreSQL persistence ---
	if cfg.Database.Postgres.Enabled {
		persistRun(ctx, cfg, log, zapLog, store.RunSummary{
			RunID:          runID,
			StartedAt:      startedAt,
			FinishedAt:     time.Now().UTC(),
			TotalMatches:   len(organized),
			TotalSeasons:   len(records),
			PerfectSeasons: report.Overall.PerfectTournaments,
			GoodSeasons:    report.Overall.GoodTournaments,
			Unassigned:     report.Overall.UnassignedMatches,
			Defects:        len(defects),
		}, organized, records)
	}

	zapLog.Info("Run complete",
		zap.String("runId", runID),
		zap.Duration("elapsed", time.Since(startedAt)),
	)
}

func writeReport(path string, report *quality.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return report.Render(file)
}

// persistRun saves the run to PostgreSQL. Persistence failures are
// logged and swallowed: the files on disk are the primary output.
func persistRun(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger, run store.RunSummary, matches []models.Match, records []models.QualityRecord) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Warn("postgres unavailable, skipping persistence", zap.Error(err))
		return
	}
	defer pg.Close()

	if err := pg.Ping(ctx); err != nil {
		zapLog.Warn("postgres unreachable, skipping persistence", zap.Error(err))
		return
	}

	s := store.New(pg, log)
	if err := s.EnsureSchema(ctx); err != nil {
		zapLog.Warn("schema setup failed, skipping persistence", zap.Error(err))
		return
	}
	if err := s.SaveRun(ctx, run, matches, records); err != nil {
		zapLog.Warn("run persistence failed", zap.Error(err))
	}
}
