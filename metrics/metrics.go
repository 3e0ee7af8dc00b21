// Package metrics exposes auth activity as prometheus counters.
package metrics

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	auth "github.com/goliatone/go-campus-auth"
)

// Sink counts activity events by type
type Sink struct {
	events *prometheus.CounterVec
}

var _ auth.ActivitySink = (*Sink)(nil)

// NewSink registers the counters with reg
func NewSink(reg prometheus.Registerer) *Sink {
	s := &Sink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication activity events by type.",
		}, []string{"event"}),
	}
	reg.MustRegister(s.events)
	return s
}

func (s *Sink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.events.WithLabelValues(string(event.EventType)).Inc()
	return nil
}

// Counter exposes the underlying vector, mostly for tests
func (s *Sink) Counter() *prometheus.CounterVec {
	return s.events
}

// Handler serves the gatherer in the prometheus text format
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
