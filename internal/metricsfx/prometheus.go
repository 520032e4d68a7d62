package metricsfx

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yurykabanov/logrotated/pkg/catalog"
	"github.com/yurykabanov/logrotated/pkg/metrics"
)

func Registry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	err := reg.Register(collectors.NewGoCollector())
	if err != nil {
		return nil, err
	}

	err = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err != nil {
		return nil, err
	}

	return reg, nil
}

func Recorder(reg *prometheus.Registry) (catalog.Recorder, error) {
	return metrics.NewPromRecorder(reg)
}

func RegisterMetricsHandler(router *mux.Router, reg *prometheus.Registry) {
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
