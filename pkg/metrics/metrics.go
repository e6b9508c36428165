package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesCreated messages created by content type
	MessagesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat",
		Name:      "messages_created_total",
		Help:      "Messages created, by content type.",
	}, []string{"type"})

	// ReadPositionsSet watermarks written
	ReadPositionsSet = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chat",
		Name:      "read_positions_set_total",
		Help:      "Read positions written.",
	})

	// UnreadLookupFailures per-chat unread lookups that failed
	UnreadLookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chat",
		Name:      "unread_lookup_failures_total",
		Help:      "Per-chat unread lookups that returned an error.",
	})

	// UnreadDuration time spent aggregating unread messages for one user
	UnreadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chat",
		Name:      "unread_aggregation_seconds",
		Help:      "Unread aggregation latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// PublishFailures push events that could not be delivered
	PublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat",
		Name:      "publish_failures_total",
		Help:      "Push events whose publish failed, by event name.",
	}, []string{"event"})
)

// Register register every collector on reg
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		MessagesCreated, ReadPositionsSet, UnreadLookupFailures, UnreadDuration, PublishFailures,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler fiber handler serving the registry in the prometheus text format
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
