package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlocksScanned counts source-chain blocks fully processed
	BlocksScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_blocks_scanned_total",
			Help: "Total number of source-chain blocks scanned",
		},
	)

	// LastScannedHeight tracks the persisted scan cursor
	LastScannedHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_last_scanned_height",
			Help: "Last fully processed source-chain height",
		},
	)

	// DepositsDetected counts eligible deposits found in scanned blocks
	DepositsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_deposits_detected_total",
			Help: "Total number of eligible gateway deposits detected",
		},
	)

	// SettlementsTotal counts settled payouts by path
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_settlements_total",
			Help: "Total number of settled payouts",
		},
		[]string{"path"},
	)

	// SettlementAmount tracks settled payout amounts
	SettlementAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_settlement_amount",
			Help:    "Settled payout amount in whole target-chain tokens",
			Buckets: []float64{0.1, 1, 10, 100, 1000, 10000},
		},
	)

	// FaultsTotal counts recorded faults by kind
	FaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_faults_total",
			Help: "Total number of recorded faults",
		},
		[]string{"kind"},
	)

	// ScanFailures counts block-scan iterations that rolled the cursor back
	ScanFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_scan_failures_total",
			Help: "Total number of failed scan iterations",
		},
	)

	// ShieldedPollAttempts tracks how many polls a shielded operation needed
	ShieldedPollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_shielded_poll_attempts",
			Help:    "Number of operation result polls per shielded payout",
			Buckets: []float64{1, 2, 3, 5, 10, 30, 60, 120},
		},
	)

	// ConfirmedSettlements counts settlements confirmed by the watcher
	ConfirmedSettlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_confirmed_settlements_total",
			Help: "Total number of settlements confirmed on the target chain",
		},
		[]string{"path"},
	)
)
