// Package metrics holds the Prometheus instruments of the order workflow and
// the HTTP layer. A nil *Workflow or *HTTP records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Workflow struct {
	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	insufficientStock prometheus.Counter
	publishFailed     *prometheus.CounterVec
}

// NewWorkflow registers the workflow instruments on reg.
func NewWorkflow(reg prometheus.Registerer) *Workflow {
	w := &Workflow{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_workflow_requests_total",
			Help: "Order workflow operations by outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "order_workflow_duration_seconds",
			Help:    "Order workflow operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		insufficientStock: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_insufficient_total",
			Help: "Order attempts rejected because a stock decrease failed.",
		}),
		publishFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_event_publish_failed_total",
			Help: "Order events that could not be published.",
		}, []string{"event"}),
	}
	reg.MustRegister(w.requests, w.duration, w.insufficientStock, w.publishFailed)
	return w
}

// Observe records one finished operation.
func (w *Workflow) Observe(op, outcome string, seconds float64) {
	if w == nil {
		return
	}
	w.requests.WithLabelValues(op, outcome).Inc()
	w.duration.WithLabelValues(op).Observe(seconds)
}

func (w *Workflow) InsufficientStock() {
	if w == nil {
		return
	}
	w.insufficientStock.Inc()
}

func (w *Workflow) PublishFailed(event string) {
	if w == nil {
		return
	}
	w.publishFailed.WithLabelValues(event).Inc()
}

type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .2, .4, .8, 1.6},
		}, []string{"method", "path"}),
	}
	reg.MustRegister(h.requests, h.duration)
	return h
}

func (h *HTTP) Observe(method, path, status string, seconds float64) {
	if h == nil {
		return
	}
	h.requests.WithLabelValues(method, path, status).Inc()
	h.duration.WithLabelValues(method, path).Observe(seconds)
}
