// Package metrics defines the Prometheus collectors for the index and the
// shell, and optionally serves them for scraping.
package metrics

import (
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered in.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal     *prometheus.CounterVec
	SearchLatency     prometheus.Histogram
	SuggestionsTotal  prometheus.Counter
	DocumentsLoaded   prometheus.Counter
	DocumentsUnloaded prometheus.Counter
	LoadErrorsTotal   prometheus.Counter
	IndexTerms        prometheus.Gauge
	IndexDocuments    prometheus.Gauge
	CommandsTotal     *prometheus.CounterVec
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexis_searches_total",
				Help: "Total searches by outcome (match, no_match).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexis_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		SuggestionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexis_suggestions_total",
				Help: "Total suggestion requests.",
			},
		),
		DocumentsLoaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexis_documents_loaded_total",
				Help: "Total documents loaded into the index.",
			},
		),
		DocumentsUnloaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexis_documents_unloaded_total",
				Help: "Total documents removed from the index.",
			},
		),
		LoadErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexis_load_errors_total",
				Help: "Total files that could not be loaded.",
			},
		),
		IndexTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexis_index_terms",
				Help: "Distinct terms in the inverted index.",
			},
		),
		IndexDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexis_index_documents",
				Help: "Documents in the forward index.",
			},
		),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexis_commands_total",
				Help: "Shell commands by name.",
			},
			[]string{"command"},
		),
	}

	m.registry.MustRegister(
		m.SearchesTotal,
		m.SearchLatency,
		m.SuggestionsTotal,
		m.DocumentsLoaded,
		m.DocumentsUnloaded,
		m.LoadErrorsTotal,
		m.IndexTerms,
		m.IndexDocuments,
		m.CommandsTotal,
	)

	return m
}

// RegisterCache exposes the hit and miss counters of a query cache.
func (m *Metrics) RegisterCache(counters func() (hits, misses uint64)) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "lexis_cache_hits_total",
			Help: "Total search cache hits.",
		}, func() float64 {
			hits, _ := counters()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "lexis_cache_misses_total",
			Help: "Total search cache misses.",
		}, func() float64 {
			_, misses := counters()
			return float64(misses)
		}),
	)
}

// Sample is one counter or gauge value, summed over its label values.
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers the current counter and gauge values, sorted by name.
// Histograms report their sample count.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(families))
	for _, mf := range families {
		var total float64
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				total += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				total += metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				total += float64(metric.GetHistogram().GetSampleCount())
			}
		}
		samples = append(samples, Sample{Name: mf.GetName(), Value: total})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
