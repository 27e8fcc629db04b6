package tth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func measure(m prometheus.Observer) func() {
	start := time.Now()
	return func() {
		dt := time.Since(start)
		m.Observe(dt.Seconds())
	}
}

const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	cntFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tth_files_total",
		Help: "The total number of hashed files",
	}, []string{"engine", "result"})
	cntBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tth_bytes_total",
		Help: "The total number of hashed bytes",
	}, []string{"engine"})
	durHash = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "tth_duration_seconds",
		Help: "The time to hash a single file",
	}, []string{"engine"})
	cntWorkerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tth_worker_failures_total",
		Help: "The total number of failed parallel workers",
	})
)

// countFile records the result of hashing a single file.
func countFile(engine string, size int64, err error) {
	if err != nil {
		cntFiles.WithLabelValues(engine, resultError).Inc()
		return
	}
	cntFiles.WithLabelValues(engine, resultOK).Inc()
	cntBytes.WithLabelValues(engine).Add(float64(size))
}
