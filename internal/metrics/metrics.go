package metrics

import (
	"errors"
	"time"

	"github.com/dendrascience/zipsync/zipsync"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the run metrics of one zipsync invocation. It implements
// zipsync.Observer so it can be attached to an Archiver directly.
type Registry struct {
	*prometheus.Registry

	entriesTotal *prometheus.CounterVec
	bytesTotal   *prometheus.CounterVec
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	lastSuccess  *prometheus.GaugeVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		Registry: reg,

		entriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zipsync_entries_total",
				Help: "Total number of entries processed, by outcome",
			},
			[]string{"operation", "action"},
		),

		bytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zipsync_bytes_total",
				Help: "Total number of uncompressed bytes written",
			},
			[]string{"operation"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zipsync_runs_total",
				Help: "Total number of runs, by result",
			},
			[]string{"operation", "result"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zipsync_run_duration_seconds",
				Help:    "Run duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
			},
			[]string{"operation"},
		),

		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "zipsync_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(r.entriesTotal)
	reg.MustRegister(r.bytesTotal)
	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.lastSuccess)

	return r
}

// Observe records one processed entry.
func (r *Registry) Observe(e zipsync.Event) {
	op := string(e.Op)
	r.entriesTotal.WithLabelValues(op, e.Action.String()).Inc()
	if e.Bytes > 0 {
		r.bytesTotal.WithLabelValues(op).Add(float64(e.Bytes))
	}
}

// RecordRun records the completion of a run. err is the value returned by
// Compress or Uncompress.
func (r *Registry) RecordRun(op zipsync.Operation, duration time.Duration, err error) {
	r.runsTotal.WithLabelValues(string(op), resultLabel(err)).Inc()
	r.runDuration.WithLabelValues(string(op)).Observe(duration.Seconds())
	if err == nil {
		r.lastSuccess.WithLabelValues(string(op)).SetToCurrentTime()
	}
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var zerr *zipsync.Error
	if errors.As(err, &zerr) {
		return zerr.Code
	}
	return "error"
}
