package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "http_requests_total",
			Help:      "The total number of handled HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flightdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	TicketsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flightdesk",
		Name:      "tickets_booked_total",
		Help:      "The total number of tickets sold",
	})

	// TicketsCanceled counts ticket transitions by resulting status.
	TicketsCanceled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "tickets_canceled_total",
			Help:      "The total number of ticket cancellations",
		},
		[]string{"status"},
	)

	FlightsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "flights_cache_lookups_total",
			Help:      "Flights snapshot cache lookups",
		},
		[]string{"result"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "ticket_events_processed_total",
			Help:      "Ticket events handled by the worker",
		},
		[]string{"type", "outcome"},
	)
)
