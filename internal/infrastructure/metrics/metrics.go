package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Ruby405/double-entry/internal/domain"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferDuration prometheus.Histogram
	TransferErrors   *prometheus.CounterVec

	// Retry metrics, fed by the runner's retry events
	DeadlockRestarts  prometheus.Counter
	DeadlockRetries   prometheus.Counter
	DuplicatesIgnored prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "double_entry_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "double_entry_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "double_entry_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		DeadlockRestarts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "double_entry_deadlock_restarts_total",
			Help: "Units of work restarted after a classified deadlock",
		}),
		DeadlockRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "double_entry_deadlock_retries_total",
			Help: "Guarded writes retried in place after a classified deadlock",
		}),
		DuplicatesIgnored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "double_entry_duplicates_ignored_total",
			Help: "Duplicate-key races suppressed on guarded writes",
		}),
	}
}

// DeadlockRestart implements usecase.RetryObserver.
func (m *Metrics) DeadlockRestart(error) {
	m.DeadlockRestarts.Inc()
}

// DeadlockRetry implements usecase.RetryObserver.
func (m *Metrics) DeadlockRetry(error) {
	m.DeadlockRetries.Inc()
}

// DuplicateIgnore implements usecase.RetryObserver.
func (m *Metrics) DuplicateIgnore(error) {
	m.DuplicatesIgnored.Inc()
}

// ObserveTransfer records a finished transfer attempt.
func (m *Metrics) ObserveTransfer(duration time.Duration, err error) {
	if err != nil {
		m.TransferErrors.WithLabelValues(transferErrorType(err)).Inc()
		return
	}

	m.TransfersCreated.Inc()
	m.TransferDuration.Observe(duration.Seconds())
}

func transferErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransferNotAllowed):
		return "not_allowed"
	case errors.Is(err, domain.ErrTransferAmountNegative):
		return "negative_amount"
	case errors.Is(err, domain.ErrMismatchedCurrencies):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrAccountWouldBeSentNegative):
		return "insufficient_balance"
	default:
		return "other"
	}
}
