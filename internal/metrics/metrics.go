package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loginwatch"

var requestDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics groups every collector the service exports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoginsRecorded     *prometheus.CounterVec
	LoginAttempts      *prometheus.CounterVec
	BackfilledEvents   prometheus.Counter
	BackfillFailures   prometheus.Counter
	SuspiciousAccounts prometheus.Gauge
	AccountsClassified prometheus.Gauge
	PresenceSwept      prometheus.Counter
	JobRuns            *prometheus.CounterVec

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg, which must not be nil
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoginsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_recorded_total",
			Help:      "Login events appended on real authentication, by device",
		}, []string{"device"}),

		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),

		BackfilledEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfilled_events_total",
			Help:      "Synthetic login events written by history backfill",
		}),

		BackfillFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_failures_total",
			Help:      "History backfills that failed and were skipped",
		}),

		SuspiciousAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suspicious_accounts",
			Help:      "Accounts flagged suspicious at the last full classification",
		}),

		AccountsClassified: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts_classified",
			Help:      "Accounts evaluated at the last full classification",
		}),

		PresenceSwept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_swept_total",
			Help:      "Accounts flipped from online to offline by the presence sweep",
		}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job executions by job and result",
		}, []string{"job", "result"}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method",
			Buckets:   requestDurationBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) LoginRecorded(device string) {
	if m == nil {
		return
	}
	m.LoginsRecorded.WithLabelValues(device).Inc()
}

func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Backfilled(n int) {
	if m == nil {
		return
	}
	m.BackfilledEvents.Add(float64(n))
}

func (m *Metrics) BackfillFailed() {
	if m == nil {
		return
	}
	m.BackfillFailures.Inc()
}

// Classified records the outcome of a full-population classification
func (m *Metrics) Classified(total, suspicious int) {
	if m == nil {
		return
	}
	m.AccountsClassified.Set(float64(total))
	m.SuspiciousAccounts.Set(float64(suspicious))
}

func (m *Metrics) Swept(n int64) {
	if m == nil {
		return
	}
	m.PresenceSwept.Add(float64(n))
}

func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.JobRuns.WithLabelValues(job, result).Inc()
}

// Handler exposes the collectors registered on g in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
