package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts the outcomes the operator actually cares about: per-page
// publish dispatches, enhancement fallbacks, cancellations and sweeps.
type Collector struct {
	registry *prometheus.Registry

	publishDispatches   *prometheus.CounterVec
	enhancementFallback prometheus.Counter
	postsCancelled      prometheus.Counter
	sweptRecords        *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry so tests can build
// independent instances without double-registration panics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		publishDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_publish_dispatches_total",
			Help: "Per-page publish dispatch outcomes.",
		}, []string{"outcome"}),
		enhancementFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_enhancement_fallback_total",
			Help: "Content enhancement calls that fell back to the original text.",
		}),
		postsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_posts_cancelled_total",
			Help: "Scheduled posts cancelled by their owner.",
		}),
		sweptRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_swept_records_total",
			Help: "Records removed by the retention sweeper.",
		}, []string{"kind"}),
	}

	c.registry.MustRegister(
		c.publishDispatches,
		c.enhancementFallback,
		c.postsCancelled,
		c.sweptRecords,
	)

	return c
}

func (c *Collector) RecordDispatch(outcome string) {
	c.publishDispatches.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordEnhancementFallback() {
	c.enhancementFallback.Inc()
}

func (c *Collector) RecordCancellation() {
	c.postsCancelled.Inc()
}

func (c *Collector) RecordSwept(kind string, count int) {
	c.sweptRecords.WithLabelValues(kind).Add(float64(count))
}

// Handler returns the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
