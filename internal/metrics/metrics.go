package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives domain events worth counting.
type Recorder interface {
	StoreMutation(kind, op, result string)
	AssistantCall(outcome string)
}

// Collector holds the Prometheus metrics of the service on a private registry.
type Collector struct {
	registry       *prometheus.Registry
	storeMutations *prometheus.CounterVec
	assistantCalls *prometheus.CounterVec
}

// NewCollector creates and registers the service metrics under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	storeMutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Domain store mutations by collection, operation and result",
		},
		[]string{"kind", "op", "result"},
	)
	assistantCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_calls_total",
			Help:      "Assistant questions by outcome",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(
		storeMutations,
		assistantCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry:       registry,
		storeMutations: storeMutations,
		assistantCalls: assistantCalls,
	}
}

func (c *Collector) StoreMutation(kind, op, result string) {
	c.storeMutations.WithLabelValues(kind, op, result).Inc()
}

func (c *Collector) AssistantCall(outcome string) {
	c.assistantCalls.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop discards every event.
type Nop struct{}

func (Nop) StoreMutation(string, string, string) {}
func (Nop) AssistantCall(string)                 {}
