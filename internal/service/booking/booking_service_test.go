package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Purchase(ctx context.Context, p repository.NewPurchase) ([]domain.Ticket, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Cancel(ctx context.Context, ticketID, userID int64, at time.Time, refundWindow time.Duration) (*repository.Cancellation, error) {
	args := m.Called(ctx, ticketID, userID, at, refundWindow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Cancellation), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishTicketEvent(ctx context.Context, topic string, event kafka.TicketEvent) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(tickets *MockTicketRepository, flights *MockFlightRepository, cache *MockCache, producer *MockProducer) *BookingService {
	s := NewBookingService(tickets, flights, cache, 24*time.Hour, 9, WithLocation(time.UTC))
	if producer != nil {
		s.producer = producer
		s.eventsTopic = "ticket-events"
	}
	s.now = func() time.Time { return fixedNow }
	return s
}

func paidTicket(id int64, conf string, price string, at time.Time) domain.Ticket {
	return domain.Ticket{
		ID:             id,
		UserID:         1,
		FlightID:       10,
		Status:         domain.TicketStatusPaid,
		ConfirmationID: conf,
		PricePaid:      decimal.RequireFromString(price),
		PurchasedAt:    at,
	}
}

func TestBookingService_BookTickets_Success(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockTickets, mockFlights, mockCache, mockProducer)
	ctx := context.Background()

	var purchase repository.NewPurchase
	tickets := []domain.Ticket{
		paidTicket(1, "CONF-A", "150", fixedNow),
		paidTicket(2, "CONF-A", "150", fixedNow),
	}
	mockTickets.On("Purchase", ctx, mock.MatchedBy(func(p repository.NewPurchase) bool {
		purchase = p
		return p.UserID == 1 && p.FlightID == 10 && p.Passengers == 2 && p.PurchasedAt.Equal(fixedNow)
	})).Return(tickets, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockFlights.On("GetByID", ctx, int64(10)).Return(&domain.Flight{ID: 10, FlightNumber: "SU100"}, nil).Once()
	mockProducer.On("PublishTicketEvent", ctx, "ticket-events", mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.TicketEventBooked && e.FlightNumber == "SU100"
	})).Return(nil).Twice()

	agg, err := service.BookTickets(ctx, BookInput{UserID: 1, FlightID: 10, Passengers: 2})

	require.NoError(t, err)
	assert.Equal(t, "CONF-A", agg.ConfirmationID)
	assert.Len(t, agg.Tickets, 2)
	assert.True(t, agg.Total.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, domain.BookingStatusActive, agg.Status)
	assert.Regexp(t, regexp.MustCompile(`^CONF-20240301120000-[0-9A-F]{6}$`), purchase.ConfirmationID)

	mockTickets.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_BookTickets_InvalidPassengers(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	service := newTestService(mockTickets, &MockFlightRepository{}, &MockCache{}, nil)

	for _, n := range []int{0, -1, 10} {
		_, err := service.BookTickets(context.Background(), BookInput{UserID: 1, FlightID: 10, Passengers: n})
		assert.ErrorIs(t, err, ErrInvalidPassengers)
	}
	mockTickets.AssertNotCalled(t, "Purchase")
}

func TestBookingService_BookTickets_NotEnoughSeats(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockTickets, &MockFlightRepository{}, mockCache, nil)
	ctx := context.Background()

	mockTickets.On("Purchase", ctx, mock.Anything).Return(nil, repository.ErrNotEnoughSeats).Once()

	agg, err := service.BookTickets(ctx, BookInput{UserID: 1, FlightID: 10, Passengers: 3})

	assert.ErrorIs(t, err, repository.ErrNotEnoughSeats)
	assert.Nil(t, agg)
	mockCache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestBookingService_BookTickets_PublishFailureIsNotFatal(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockTickets, mockFlights, mockCache, mockProducer)
	ctx := context.Background()

	mockTickets.On("Purchase", ctx, mock.Anything).Return([]domain.Ticket{paidTicket(1, "CONF-A", "99", fixedNow)}, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(errors.New("redis down")).Once()
	mockFlights.On("GetByID", ctx, int64(10)).Return(nil, repository.ErrNotFound).Once()
	mockProducer.On("PublishTicketEvent", ctx, "ticket-events", mock.Anything).Return(errors.New("broker down")).Once()

	agg, err := service.BookTickets(ctx, BookInput{UserID: 1, FlightID: 10, Passengers: 1})

	require.NoError(t, err)
	assert.Equal(t, "CONF-A", agg.ConfirmationID)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CancelTicket_Refunded(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockTickets, &MockFlightRepository{}, mockCache, mockProducer)
	ctx := context.Background()

	ticket := paidTicket(5, "CONF-A", "150", fixedNow.Add(-time.Hour))
	ticket.Status = domain.TicketStatusRefunded
	ticket.CanceledAt = &fixedNow
	mockTickets.On("Cancel", ctx, int64(5), int64(1), fixedNow, 24*time.Hour).
		Return(&repository.Cancellation{Ticket: ticket, Flight: domain.Flight{ID: 10}, Changed: true}, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("PublishTicketEvent", ctx, "ticket-events", mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.TicketEventCanceled && e.Status == domain.TicketStatusRefunded && e.TicketID == 5
	})).Return(nil).Once()

	result, err := service.CancelTicket(ctx, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusRefunded, result.Status)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CancelTicket_AlreadyTerminal(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockTickets, &MockFlightRepository{}, mockCache, mockProducer)
	ctx := context.Background()

	ticket := paidTicket(5, "CONF-A", "150", fixedNow.Add(-time.Hour))
	ticket.Status = domain.TicketStatusCanceled
	mockTickets.On("Cancel", ctx, int64(5), int64(1), fixedNow, 24*time.Hour).
		Return(&repository.Cancellation{Ticket: ticket, Changed: false}, nil).Once()

	result, err := service.CancelTicket(ctx, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCanceled, result.Status)
	mockCache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
	mockProducer.AssertNotCalled(t, "PublishTicketEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CancelTicket_NotFound(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	service := newTestService(mockTickets, &MockFlightRepository{}, &MockCache{}, nil)
	ctx := context.Background()

	mockTickets.On("Cancel", ctx, int64(77), int64(1), fixedNow, 24*time.Hour).Return(nil, repository.ErrNotFound).Once()

	result, err := service.CancelTicket(ctx, 1, 77)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, result)
}

func TestBookingService_UserBookings(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	service := newTestService(mockTickets, &MockFlightRepository{}, nil, nil)
	ctx := context.Background()

	canceled := paidTicket(3, "CONF-B", "200", fixedNow.Add(-time.Hour))
	canceled.Status = domain.TicketStatusCanceled
	mockTickets.On("ListByUser", ctx, int64(1)).Return([]domain.Ticket{
		paidTicket(1, "CONF-A", "100", fixedNow.Add(-2*time.Hour)),
		paidTicket(2, "CONF-A", "100", fixedNow.Add(-3*time.Hour)),
		canceled,
	}, nil).Once()

	aggs, err := service.UserBookings(ctx, 1)

	require.NoError(t, err)
	require.Len(t, aggs, 2)
	assert.Equal(t, "CONF-A", aggs[0].ConfirmationID)
	assert.Equal(t, fixedNow.Add(-3*time.Hour), aggs[0].EarliestPurchase)
	assert.Equal(t, domain.BookingStatusCanceled, aggs[1].Status)
}

func TestBookingService_AdminBookings_FiltersByRange(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	service := newTestService(mockTickets, mockFlights, nil, nil)
	ctx := context.Background()

	day := func(d int, h int) time.Time { return time.Date(2024, 2, d, h, 0, 0, 0, time.UTC) }
	mockTickets.On("List", ctx).Return([]domain.Ticket{
		paidTicket(1, "CONF-OLD", "10", day(1, 23)),
		paidTicket(2, "CONF-IN", "10", day(2, 0)),
		paidTicket(3, "CONF-LAST", "10", day(3, 23)),
		paidTicket(4, "CONF-NEW", "10", day(4, 0)),
	}, nil).Once()
	mockFlights.On("List", ctx).Return([]domain.Flight{{ID: 10, CompanyID: 7, Carrier: "Pobeda"}}, nil).Once()

	out, err := service.AdminBookings(ctx, domain.DateRange{Start: day(2, 0), End: day(3, 0)})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "CONF-IN", out[0].ConfirmationID)
	assert.Equal(t, "CONF-LAST", out[1].ConfirmationID)
	assert.Equal(t, int64(7), out[0].CompanyID)
	assert.Equal(t, "Pobeda", out[0].Carrier)
}

func TestBookingService_AdminBookings_RepositoryError(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	service := newTestService(mockTickets, &MockFlightRepository{}, nil, nil)
	ctx := context.Background()

	mockTickets.On("List", ctx).Return(nil, errors.New("db error")).Once()

	_, err := service.AdminBookings(ctx, domain.DateRange{Start: fixedNow, End: fixedNow})

	assert.Error(t, err)
}

func TestNewConfirmationID(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC)

	a := NewConfirmationID(at)
	b := NewConfirmationID(at)

	assert.Regexp(t, `^CONF-20241231235958-[0-9A-F]{6}$`, a)
	assert.NotEqual(t, a, b)
}
