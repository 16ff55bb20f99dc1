package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline Prometheus metrics.
var (
	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "samvaad",
			Name:      "chat_turns_total",
			Help:      "Total number of chat turns by outcome",
		},
		[]string{"outcome"}, // "model" / "composed" / "crisis" / "fallback"
	)

	ChatTurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "samvaad",
			Name:      "chat_turn_duration_seconds",
			Help:      "Full chat turn duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CrisisDetectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "samvaad",
			Name:      "crisis_detections_total",
			Help:      "Total number of crisis keyword detections",
		},
	)

	RetrievalSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "samvaad",
			Name:      "retrieval_searches_total",
			Help:      "Total knowledge searches by retrieval mode",
		},
		[]string{"mode"}, // "vector" / "fallback"
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "samvaad",
			Name:      "generation_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "samvaad",
			Name:      "generation_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "samvaad",
			Name:      "generation_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"model", "type"}, // type: "prompt" / "completion" / "total"
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers Prometheus chat metrics. Must be called once from main.
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatTurnsTotal)
	prometheus.MustRegister(ChatTurnDuration)
	prometheus.MustRegister(CrisisDetectionsTotal)
	prometheus.MustRegister(RetrievalSearchesTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	chatMetricsRegistered = true
}
