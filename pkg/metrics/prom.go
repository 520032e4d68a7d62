package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yurykabanov/logrotated/pkg/catalog"
)

// PromRecorder records converge runs in Prometheus metrics.
type PromRecorder struct {
	resources *prometheus.CounterVec
	runs      prometheus.Counter
	duration  prometheus.Histogram
	lastRun   prometheus.Gauge
}

// NewPromRecorder registers collectors on reg, reusing already registered ones.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	resources := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logrotated_resources_total",
		Help: "Total number of applied resources by outcome",
	}, []string{"type", "status"})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "logrotated_runs_total",
		Help: "Total number of converge runs",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "logrotated_run_duration_seconds",
		Help:    "Duration of converge runs",
		Buckets: prometheus.DefBuckets,
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "logrotated_last_run_timestamp_seconds",
		Help: "Time of the last finished converge run",
	})

	var err error
	if resources, err = register(reg, resources); err != nil {
		return nil, err
	}
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if lastRun, err = register(reg, lastRun); err != nil {
		return nil, err
	}

	return &PromRecorder{
		resources: resources,
		runs:      runs,
		duration:  duration,
		lastRun:   lastRun,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(C), nil
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) ObserveResource(resourceType string, status catalog.ResourceStatus) {
	r.resources.WithLabelValues(resourceType, string(status)).Inc()
}

func (r *PromRecorder) ObserveRun(report catalog.Report, duration time.Duration) {
	r.runs.Inc()
	r.duration.Observe(duration.Seconds())
	r.lastRun.SetToCurrentTime()
}
