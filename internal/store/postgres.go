// internal/store/postgres.go

// Package store persists run results to PostgreSQL. Persistence is an
// optional sink: a failed save is reported but never invalidates the
// in-memory results or the written files.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/database"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// RunSummary captures the top-level outcome of one pipeline run.
type RunSummary struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	TotalMatches   int
	TotalSeasons   int
	PerfectSeasons int
	GoodSeasons    int
	Unassigned     int
	Defects        int
}

// Store writes run summaries, assigned matches and quality records.
type Store struct {
	db  *database.PostgresClient
	log logger.Logger
}

// New creates a Store on an open database client.
func New(db *database.PostgresClient, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// The composite identifier in scraped data names the tournament-season,
// not a single fixture, so every match of one season carries the same
// composite_id. Rows are keyed by their ordinal within the run instead.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS matchday_runs (
		run_id          UUID PRIMARY KEY,
		started_at      TIMESTAMPTZ NOT NULL,
		finished_at     TIMESTAMPTZ NOT NULL,
		total_matches   INTEGER NOT NULL,
		total_seasons   INTEGER NOT NULL,
		perfect_seasons INTEGER NOT NULL,
		good_seasons    INTEGER NOT NULL,
		unassigned      INTEGER NOT NULL,
		defects         INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS matchday_matches (
		run_id       UUID NOT NULL REFERENCES matchday_runs(run_id) ON DELETE CASCADE,
		ord          INTEGER NOT NULL,
		composite_id TEXT NOT NULL,
		tournament   TEXT NOT NULL,
		season       TEXT NOT NULL,
		match_date   DATE NOT NULL,
		home_team    TEXT NOT NULL,
		away_team    TEXT NOT NULL,
		result       TEXT,
		round        INTEGER NOT NULL,
		PRIMARY KEY (run_id, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS matchday_quality (
		run_id           UUID NOT NULL REFERENCES matchday_runs(run_id) ON DELETE CASCADE,
		tournament       TEXT NOT NULL,
		season           TEXT NOT NULL,
		team_count       INTEGER NOT NULL,
		total_matches    INTEGER NOT NULL,
		total_rounds     INTEGER NOT NULL,
		perfect_rounds   INTEGER NOT NULL,
		perfect_fraction DOUBLE PRECISION NOT NULL,
		unassigned       INTEGER NOT NULL,
		classification   TEXT NOT NULL,
		PRIMARY KEY (run_id, tournament, season)
	)`,
}

// EnsureSchema creates the result tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return errors.NewStoreWriteFailedError(err)
		}
	}
	return nil
}

const (
	insertRun = `INSERT INTO matchday_runs
		(run_id, started_at, finished_at, total_matches, total_seasons,
		 perfect_seasons, good_seasons, unassigned, defects)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	insertMatch = `INSERT INTO matchday_matches
		(run_id, ord, composite_id, tournament, season, match_date,
		 home_team, away_team, result, round)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertQuality = `INSERT INTO matchday_quality
		(run_id, tournament, season, team_count, total_matches, total_rounds,
		 perfect_rounds, perfect_fraction, unassigned, classification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectRun = `SELECT run_id, started_at, finished_at, total_matches, total_seasons,
		 perfect_seasons, good_seasons, unassigned, defects
		FROM matchday_runs`
)

// SaveRun writes a complete run in one transaction. Either everything
// lands or nothing does.
func (s *Store) SaveRun(ctx context.Context, run RunSummary, matches []models.Match, records []models.QualityRecord) error {
	tx, err := s.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreWriteFailedError(err)
	}

	if err := saveRunTx(ctx, tx, run, matches, records); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", map[string]interface{}{
				"runId": run.RunID,
				"error": rbErr.Error(),
			})
		}
		return errors.NewStoreWriteFailedError(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStoreWriteFailedError(err)
	}

	s.log.Info("run persisted", map[string]interface{}{
		"runId":   run.RunID,
		"matches": len(matches),
		"seasons": len(records),
	})
	return nil
}

func saveRunTx(ctx context.Context, tx *sql.Tx, run RunSummary, matches []models.Match, records []models.QualityRecord) error {
	_, err := tx.ExecContext(ctx, insertRun,
		run.RunID, run.StartedAt, run.FinishedAt,
		run.TotalMatches, run.TotalSeasons,
		run.PerfectSeasons, run.GoodSeasons,
		run.Unassigned, run.Defects,
	)
	if err != nil {
		return err
	}

	for i, m := range matches {
		_, err := tx.ExecContext(ctx, insertMatch,
			run.RunID, i+1, m.ID, m.Tournament, m.Season, m.Date,
			m.Home, m.Away, m.Result, m.Round,
		)
		if err != nil {
			return err
		}
	}

	for _, r := range records {
		_, err := tx.ExecContext(ctx, insertQuality,
			run.RunID, r.Season.Tournament, r.Season.Season,
			r.TeamCount, r.TotalMatches, r.TotalRounds,
			r.PerfectRounds, r.PerfectFraction, r.Unassigned,
			string(r.Classification),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetRun fetches one run summary by ID. A missing run returns sql.ErrNoRows.
func (s *Store) GetRun(ctx context.Context, runID string) (RunSummary, error) {
	row := s.db.QueryRow(ctx, selectRun+` WHERE run_id = $1`, runID)

	var run RunSummary
	err := row.Scan(
		&run.RunID, &run.StartedAt, &run.FinishedAt,
		&run.TotalMatches, &run.TotalSeasons,
		&run.PerfectSeasons, &run.GoodSeasons,
		&run.Unassigned, &run.Defects,
	)
	return run, err
}

// RecentRuns lists run summaries newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(ctx, selectRun+` ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		err := rows.Scan(
			&run.RunID, &run.StartedAt, &run.FinishedAt,
			&run.TotalMatches, &run.TotalSeasons,
			&run.PerfectSeasons, &run.GoodSeasons,
			&run.Unassigned, &run.Defects,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
