package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BetsPlaced counts accepted bet placements
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_bets_placed_total",
		Help: "Number of accepted bet placements",
	})

	// BetsRejected counts rejected bet placements by reason
	BetsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookie_bets_rejected_total",
		Help: "Number of rejected bet placements",
	}, []string{"reason"})

	// Settlements counts match resolutions by outcome
	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookie_settlements_total",
		Help: "Number of match resolutions",
	}, []string{"outcome"})

	// PaidOut accumulates the total amount credited to winners
	PaidOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_paid_out_total",
		Help: "Total amount paid out to winning bets",
	})

	// RequestDuration observes HTTP handler latency
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookie_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)
