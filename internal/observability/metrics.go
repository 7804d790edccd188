package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationFanoutTotal counts fan-out notification writes by type and outcome.
	NotificationFanoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_notification_fanout_total",
		Help: "Total number of fan-out notification writes by type and outcome",
	}, []string{"type", "outcome"})

	// RealtimeEventsTotal counts real-time events published by event type.
	RealtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_realtime_events_total",
		Help: "Total real-time events published by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "concierge_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// RecordFanout increments the fan-out counter for the notification type and outcome.
func RecordFanout(notificationType, outcome string) {
	NotificationFanoutTotal.WithLabelValues(notificationType, outcome).Inc()
}

// RecordRealtimeEvent increments the published events counter for the event type.
func RecordRealtimeEvent(eventType string) {
	RealtimeEventsTotal.WithLabelValues(eventType).Inc()
}
