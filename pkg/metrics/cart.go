package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics counts cart operations by outcome.
type CartMetrics struct {
	ops *prometheus.CounterVec
}

// NewCartMetrics registers the cart counters on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Cart operations by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(ops)
	return &CartMetrics{ops: ops}
}

// Observe increments the counter for op with the given outcome.
func (c *CartMetrics) Observe(op, outcome string) {
	if c == nil || c.ops == nil {
		return
	}
	c.ops.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
