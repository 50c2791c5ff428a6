// Package metrics exposes prometheus counters for resolutions, import
// records and merges.
package metrics

import (
	"net/http"

	"gift-tracker-go/internal/domain/imports"
	"gift-tracker-go/internal/domain/merge"
	"gift-tracker-go/internal/domain/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gift_tracker"

// Recorder implements the Metrics interfaces of the registry, imports and
// merge packages on a private registry.
type Recorder struct {
	registry      *prometheus.Registry
	resolutions   *prometheus.CounterVec
	importRecords *prometheus.CounterVec
	merges        *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Find-or-create resolutions by entity kind and outcome.",
		}, []string{"kind", "outcome"}),
		importRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Imported records by batch type and status.",
		}, []string{"batch", "status"}),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "household_merges_total",
			Help:      "Household merges by status.",
		}, []string{"status"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.resolutions,
		r.importRecords,
		r.merges,
	)
	return r
}

func (r *Recorder) ObserveResolution(kind registry.Kind, outcome registry.Outcome) {
	r.resolutions.WithLabelValues(string(kind), string(outcome)).Inc()
}

func (r *Recorder) ObserveImportRecord(batch imports.Batch, status imports.RecordStatus) {
	r.importRecords.WithLabelValues(string(batch), string(status)).Inc()
}

func (r *Recorder) ObserveMerge(status merge.Status) {
	r.merges.WithLabelValues(string(status)).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
