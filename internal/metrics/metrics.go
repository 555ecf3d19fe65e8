package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupsTotal counts user registrations
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forge_signups_total",
			Help: "Total number of user signups",
		},
	)

	// SubmissionsTotal counts proof submissions by policing type and outcome
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_submissions_total",
			Help: "Total number of proof submissions",
		},
		[]string{"policing_type", "outcome"},
	)

	// VerificationDuration tracks oracle verification time
	VerificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forge_verification_duration_seconds",
			Help:    "Proof verification duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SettlementsTotal counts challenge settlements by outcome
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_settlements_total",
			Help: "Total number of challenge settlements",
		},
		[]string{"outcome"},
	)

	// PointsMoved tracks points moved through the ledger by transaction type
	PointsMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_points_moved_total",
			Help: "Total points moved through the ledger",
		},
		[]string{"type"},
	)

	// PushesSent counts web push deliveries
	PushesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_pushes_sent_total",
			Help: "Total number of web push notifications sent",
		},
		[]string{"status"},
	)
)
