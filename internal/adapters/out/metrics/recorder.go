// Package metrics exposes workflow activity as Prometheus series.
package metrics

import (
	"context"
	"net/http"

	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/domain/model/event"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Subscriber is the part of the bus the Recorder listens on.
type Subscriber interface {
	Subscribe(t event.Type, name string, handler eventbus.Handler)
}

// Recorder counts transitions and notifications seen on the bus.
type Recorder struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	overdueScans  *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_transitions_total",
				Help: "Accepted department transitions",
			},
			[]string{"department", "from", "to"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_notifications_total",
				Help: "Notifications requested per recipient department",
			},
			[]string{"recipient", "type"},
		),
		overdueScans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_overdue_scans_total",
				Help: "Overdue delivery scans by outcome",
			},
			[]string{"status"},
		),
	}
	r.registry.MustRegister(
		r.transitions,
		r.notifications,
		r.overdueScans,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Attach subscribes the Recorder to the bus.
func (r *Recorder) Attach(bus Subscriber) {
	bus.Subscribe(event.SystemStateChanged, "metrics", r.onStateChanged)
	bus.Subscribe(event.SystemNotificationRequested, "metrics", r.onNotification)
}

// ObserveOverdueScan records one run of the overdue delivery job.
func (r *Recorder) ObserveOverdueScan(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.overdueScans.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry is exposed for tests and for callers that add their own collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) onStateChanged(_ context.Context, e event.Event) (any, error) {
	r.transitions.WithLabelValues(
		label(e, event.KeyDepartment),
		label(e, event.KeyFromState),
		label(e, event.KeyToState),
	).Inc()
	return nil, nil
}

func (r *Recorder) onNotification(_ context.Context, e event.Event) (any, error) {
	r.notifications.WithLabelValues(label(e, event.KeyRecipient), label(e, event.KeyKind)).Inc()
	return nil, nil
}

func label(e event.Event, key string) string {
	s, _ := e.Payload[key].(string)
	if s == "" {
		return "none"
	}
	return s
}
