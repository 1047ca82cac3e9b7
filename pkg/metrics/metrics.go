package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wanda"

type metrics struct {
	toolCallsTotal  *prometheus.CounterVec
	toolLatency     *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	inboundTotal    *prometheus.CounterVec
	smsSentTotal    *prometheus.CounterVec
	storeErrorTotal *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		toolCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations by tool and result.",
		}, []string{"tool", "result"}),
		toolLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_latency_seconds",
			Help:      "Latency distribution for tool invocations.",
			Buckets: []float64{
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"tool"}),
		eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of provider webhook events by message type.",
		}, []string{"type"}),
		inboundTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_calls_total",
			Help:      "Total number of inbound call requests by mode and result.",
		}, []string{"mode", "result"}),
		smsSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_sent_total",
			Help:      "Total number of direction texts by result.",
		}, []string{"result"}),
		storeErrorTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store failures that were logged and acknowledged.",
		}, []string{"store", "op"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

// ObserveToolCall records one dispatched tool. Tool names outside the
// catalog are folded into "unknown" to bound label cardinality.
func ObserveToolCall(tool string, known bool, ok bool, elapsed time.Duration) {
	if !known {
		tool = "unknown"
	}
	m := getMetrics()
	m.toolCallsTotal.WithLabelValues(tool, result(ok)).Inc()
	m.toolLatency.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func ObserveEvent(messageType string) {
	getMetrics().eventsTotal.WithLabelValues(messageType).Inc()
}

func ObserveInboundCall(mode string, ok bool) {
	getMetrics().inboundTotal.WithLabelValues(mode, result(ok)).Inc()
}

func ObserveSMS(ok bool) {
	getMetrics().smsSentTotal.WithLabelValues(result(ok)).Inc()
}

func ObserveStoreError(store, op string) {
	getMetrics().storeErrorTotal.WithLabelValues(store, op).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
