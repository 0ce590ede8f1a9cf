package api

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"roadnet/pkg/articulation"
	"roadnet/pkg/routing"
)

var (
	// queriesTotal counts queries by kind and result.
	// Results: "ok", "no_route", "no_selection", "canceled", "error".
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadnet_queries_total",
		Help: "Total map queries by kind and result",
	}, []string{"kind", "result"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadnet_query_duration_seconds",
		Help:    "Map query duration",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 5},
	}, []string{"kind"})
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, routing.ErrNoRoute):
		return "no_route"
	case errors.Is(err, routing.ErrNoSelection), errors.Is(err, articulation.ErrNoSelection):
		return "no_selection"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// observe records one query.
func observe(kind string, start time.Time, err error) {
	queriesTotal.WithLabelValues(kind, resultLabel(err)).Inc()
	queryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
