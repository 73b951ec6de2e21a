package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/engine/bookings"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var ErrInvalidPassengers = errors.New("invalid passenger count")

type BookingUseCase interface {
	BookTickets(ctx context.Context, input BookInput) (*domain.BookingAggregate, error)
	CancelTicket(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error)
	UserBookings(ctx context.Context, userID int64) ([]domain.BookingAggregate, error)
	AdminBookings(ctx context.Context, r domain.DateRange) ([]AdminBooking, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	PublishTicketEvent(ctx context.Context, topic string, event kafka.TicketEvent) error
}

type BookInput struct {
	UserID     int64 `json:"-"`
	FlightID   int64 `json:"-"`
	Passengers int   `json:"passengers"`
}

// AdminBooking is a booking aggregate annotated with the operating company.
type AdminBooking struct {
	domain.BookingAggregate
	CompanyID int64  `json:"company_id"`
	Carrier   string `json:"carrier"`
}

type BookingService struct {
	tickets       repository.TicketRepository
	flights       repository.FlightRepository
	cache         Cache
	producer      Producer
	eventsTopic   string
	refundWindow  time.Duration
	maxPassengers int
	location      *time.Location
	now           func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.location = loc
	}
}

func NewBookingService(
	tickets repository.TicketRepository,
	flights repository.FlightRepository,
	cache Cache,
	refundWindow time.Duration,
	maxPassengers int,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tickets:       tickets,
		flights:       flights,
		cache:         cache,
		refundWindow:  refundWindow,
		maxPassengers: maxPassengers,
		location:      time.Local,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) BookTickets(ctx context.Context, input BookInput) (*domain.BookingAggregate, error) {
	if input.Passengers < 1 || (s.maxPassengers > 0 && input.Passengers > s.maxPassengers) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPassengers, input.Passengers)
	}

	now := s.now().UTC()
	tickets, err := s.tickets.Purchase(ctx, repository.NewPurchase{
		UserID:         input.UserID,
		FlightID:       input.FlightID,
		Passengers:     input.Passengers,
		ConfirmationID: NewConfirmationID(now),
		PurchasedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.TicketsBooked.Add(float64(len(tickets)))
	s.invalidate(ctx)

	if s.producer != nil && s.eventsTopic != "" {
		flight := domain.Flight{ID: input.FlightID}
		if f, err := s.flights.GetByID(ctx, input.FlightID); err == nil {
			flight = *f
		}
		for _, t := range tickets {
			s.publish(ctx, kafka.NewTicketEvent(kafka.TicketEventBooked, t, flight, now))
		}
	}

	aggs := bookings.Aggregate(tickets)
	if len(aggs) == 0 {
		return nil, fmt.Errorf("booking %d produced no tickets", input.FlightID)
	}
	return &aggs[0], nil
}

// CancelTicket cancels one of the user's tickets. Canceling a ticket that is
// already CANCELED or REFUNDED returns it unchanged.
func (s *BookingService) CancelTicket(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	now := s.now().UTC()
	res, err := s.tickets.Cancel(ctx, ticketID, userID, now, s.refundWindow)
	if err != nil {
		return nil, err
	}
	if !res.Changed {
		return &res.Ticket, nil
	}

	metrics.TicketsCanceled.WithLabelValues(string(res.Ticket.Status)).Inc()
	s.invalidate(ctx)
	if s.producer != nil && s.eventsTopic != "" {
		s.publish(ctx, kafka.NewTicketEvent(kafka.TicketEventCanceled, res.Ticket, res.Flight, now))
	}
	return &res.Ticket, nil
}

func (s *BookingService) UserBookings(ctx context.Context, userID int64) ([]domain.BookingAggregate, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return bookings.Aggregate(tickets), nil
}

// AdminBookings lists every booking whose first purchase falls on a day of r.
func (s *BookingService) AdminBookings(ctx context.Context, r domain.DateRange) ([]AdminBooking, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(flights, func(f domain.Flight) int64 { return f.ID })

	from := r.Start
	until := r.End.AddDate(0, 0, 1)
	out := make([]AdminBooking, 0)
	for _, agg := range bookings.Aggregate(tickets) {
		at := agg.EarliestPurchase.In(s.location)
		if at.Before(from) || !at.Before(until) {
			continue
		}
		f := byID[agg.FlightID]
		out = append(out, AdminBooking{BookingAggregate: agg, CompanyID: f.CompanyID, Carrier: f.Carrier})
	}
	return out, nil
}

func (s *BookingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("failed to invalidate flights cache")
	}
}

// publish is best effort: the database already holds the new state.
func (s *BookingService) publish(ctx context.Context, event kafka.TicketEvent) {
	if err := s.producer.PublishTicketEvent(ctx, s.eventsTopic, event); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("ticket_id", event.TicketID).
			Warnf("failed to publish %s event", event.Type)
	}
}

// NewConfirmationID returns CONF-<yyyymmddHHMMSS>-<6 random chars>.
func NewConfirmationID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("CONF-%s-%s", at.UTC().Format("20060102150405"), strings.ToUpper(suffix))
}

var _ BookingUseCase = (*BookingService)(nil)
