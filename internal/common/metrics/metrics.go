// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchday_matches_processed_total",
			Help: "Total number of matches walked by the round builder",
		},
		[]string{"tournament"},
	)

	MatchesUnassigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchday_matches_unassigned_total",
			Help: "Total number of matches the builder could not place",
		},
		[]string{"tournament"},
	)

	RoundsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchday_rounds_built_total",
			Help: "Total number of rounds emitted per tournament",
		},
		[]string{"tournament"},
	)

	SeasonsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchday_seasons_processed_total",
			Help: "Total number of tournament-seasons processed",
		},
	)

	DataDefects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchday_data_defects_total",
			Help: "Total number of data-quality defects by error code",
		},
		[]string{"code"},
	)

	SeasonDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "matchday_season_processing_seconds",
			Help: "Duration of per-season round building in seconds",
		},
		[]string{"tournament"},
	)
)
