package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for the fulfillment flows.
type GatewayMetrics struct {
	fulfillmentTotal *prometheus.CounterVec
	outboundTotal    *prometheus.CounterVec
	webhookLatency   *prometheus.HistogramVec
	logFailures      prometheus.Counter
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		fulfillmentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nekconnect",
			Subsystem: "gateway",
			Name:      "fulfillment_total",
			Help:      "Total fulfillment webhook requests",
		}, []string{"intent", "channel"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nekconnect",
			Subsystem: "dispatch",
			Name:      "outbound_total",
			Help:      "Total outbound provider dispatches",
		}, []string{"kind", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nekconnect",
			Subsystem: "gateway",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		logFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nekconnect",
			Subsystem: "gateway",
			Name:      "interaction_log_failures_total",
			Help:      "Swallowed interaction-log append failures",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fulfillmentTotal, m.outboundTotal, m.webhookLatency, m.logFailures)
	return m
}

func (m *GatewayMetrics) ObserveFulfillment(intent, channel string) {
	if m == nil {
		return
	}
	m.fulfillmentTotal.WithLabelValues(intent, channel).Inc()
}

func (m *GatewayMetrics) ObserveOutbound(kind, status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *GatewayMetrics) ObserveWebhookLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(endpoint).Observe(seconds)
}

func (m *GatewayMetrics) ObserveLogFailure() {
	if m == nil {
		return
	}
	m.logFailures.Inc()
}
