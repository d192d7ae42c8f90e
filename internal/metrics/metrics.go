package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// SourceFetches counts analytics fetches per source and outcome.
var SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sysgrow_source_fetch_total",
	Help: "Analytics source fetches by source and outcome.",
}, []string{"source", "outcome"})

// PushEvents counts real-time events handled per event class.
var PushEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sysgrow_push_events_total",
	Help: "Real-time push events handled by class.",
}, []string{"event"})

// Actions counts notification action submissions per action and outcome.
var Actions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sysgrow_action_total",
	Help: "Notification action submissions by action and outcome.",
}, []string{"action", "outcome"})

// NotificationLoads counts notification list loads per outcome.
var NotificationLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sysgrow_notification_load_total",
	Help: "Notification list loads by outcome.",
}, []string{"outcome"})
