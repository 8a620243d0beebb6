package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RegisterPoolStats exports connection pool gauges read from stats at scrape time
func RegisterPoolStats(reg prometheus.Registerer, stats func() *pgxpool.Stat) {
	factory := promauto.With(reg)

	gauge := func(name, help string, value func(*pgxpool.Stat) float64) {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(stats()) })
	}

	gauge("total_conns", "Connections currently open", func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) })
	gauge("acquired_conns", "Connections checked out by callers", func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) })
	gauge("idle_conns", "Connections idle in the pool", func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) })
	gauge("max_conns", "Configured pool size", func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) })
}
