package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	chatbotLabels = []string{"chatbot_id"}

	// Evaluation is CPU-bound; the upper buckets only fire when custom
	// scorers run close to their budget.
	latencyBuckets = []float64{
		0.5, 1, 2.5,
		5, 10, 25,
		50, 100, 250,
	}

	ConversationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagwise_conversations_total",
			Help: "Total number of conversations evaluated",
		},
		chatbotLabels,
	)

	FlaggedConversationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagwise_flagged_conversations_total",
			Help: "Total number of conversations flagged",
		},
		chatbotLabels,
	)

	EvaluationLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flagwise_evaluation_latency_ms",
			Help:    "Conversation evaluation latency in milliseconds",
			Buckets: latencyBuckets,
		},
		chatbotLabels,
	)

	RuleFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagwise_rule_failures_total",
			Help: "Total number of isolated per-rule evaluation failures",
		},
		[]string{"rule_id"},
	)

	AlertsDispatchedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagwise_alerts_dispatched_total",
			Help: "Total number of alert deliveries by sink and status",
		},
		[]string{"sink", "status"},
	)

	AlertQueueDropsTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "flagwise_alert_queue_drops_total",
			Help: "Alerts dropped because the dispatch queue was full",
		},
	)
)

func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
