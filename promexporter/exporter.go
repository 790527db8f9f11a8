package promexporter

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Exporter manages Prometheus metrics export
type Exporter struct {
	registry  *prometheus.Registry
	collector *Collector
}

// NewExporter creates a new Prometheus exporter with its own registry.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()
	collector := NewCollector()
	registry.MustRegister(collector)

	return &Exporter{
		registry:  registry,
		collector: collector,
	}
}

// Collector returns the stream statistics collector
func (e *Exporter) Collector() *Collector {
	return e.collector
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns an HTTP handler for the /metrics endpoint
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// WriteText writes the current metrics in the Prometheus text format.
func (e *Exporter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
