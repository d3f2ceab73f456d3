package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWorkflow(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := NewWorkflow(reg)

	w.Observe("create", "success", 0.01)
	w.Observe("create", "success", 0.02)
	w.Observe("create", "insufficient_stock", 0.01)
	w.InsufficientStock()
	w.PublishFailed("order.created")

	assert.Equal(t, 2.0, testutil.ToFloat64(w.requests.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.insufficientStock))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.publishFailed.WithLabelValues("order.created")))
}

func TestNilSafe(t *testing.T) {
	var w *Workflow
	var h *HTTP
	assert.NotPanics(t, func() {
		w.Observe("create", "success", 1)
		w.InsufficientStock()
		w.PublishFailed("x")
		h.Observe("GET", "/", "200", 1)
	})
}

func TestHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTP(reg)
	h.Observe("GET", "/orders/:id", "200", 0.003)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.requests.WithLabelValues("GET", "/orders/:id", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(h.duration))
}
