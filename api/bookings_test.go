package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) BookTickets(ctx context.Context, input booking.BookInput) (*domain.BookingAggregate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingAggregate), args.Error(1)
}

func (m *MockBookingUseCase) CancelTicket(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	args := m.Called(ctx, userID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockBookingUseCase) UserBookings(ctx context.Context, userID int64) ([]domain.BookingAggregate, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BookingAggregate), args.Error(1)
}

func (m *MockBookingUseCase) AdminBookings(ctx context.Context, r domain.DateRange) ([]booking.AdminBooking, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]booking.AdminBooking), args.Error(1)
}

func newBookingRouter(service booking.BookingUseCase, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(service, time.UTC)
	handler.now = func() time.Time { return now }

	r := gin.New()
	handler.Register(&r.RouterGroup)
	return r
}

func TestBookingHandler_book(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, time.UTC)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "10"}}
	c.Request = httptest.NewRequest("POST", "/flights/10/book", bytes.NewBufferString(`{"passengers":2}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(UserIDHeader, "3")

	agg := &domain.BookingAggregate{ConfirmationID: "CONF-1", FlightID: 10, Total: decimal.NewFromInt(300), Status: domain.BookingStatusActive}
	mockService.On("BookTickets", c.Request.Context(), booking.BookInput{UserID: 3, FlightID: 10, Passengers: 2}).Return(agg, nil)

	handler.book(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"confirmation_id":"CONF-1"`)
	assert.Contains(t, w.Body.String(), `"status":"ACTIVE"`)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_book_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		user     string
		body     string
		err      error
		expected int
	}{
		{name: "no user", body: `{"passengers":1}`, expected: http.StatusUnauthorized},
		{name: "bad body", user: "3", body: `{`, expected: http.StatusBadRequest},
		{name: "missing passengers", user: "3", body: `{}`, expected: http.StatusBadRequest},
		{name: "sold out", user: "3", body: `{"passengers":4}`, err: repository.ErrNotEnoughSeats, expected: http.StatusConflict},
		{name: "inactive", user: "3", body: `{"passengers":1}`, err: repository.ErrFlightInactive, expected: http.StatusConflict},
		{name: "no flight", user: "3", body: `{"passengers":1}`, err: repository.ErrNotFound, expected: http.StatusNotFound},
		{name: "too many", user: "3", body: `{"passengers":50}`, err: booking.ErrInvalidPassengers, expected: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			if tc.err != nil {
				mockService.On("BookTickets", mock.Anything, mock.Anything).Return(nil, tc.err)
			}
			r := newBookingRouter(mockService, time.Now())

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/flights/10/book", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.user != "" {
				req.Header.Set(UserIDHeader, tc.user)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService, time.Now())

	canceledAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{ID: 5, UserID: 3, Status: domain.TicketStatusRefunded, CanceledAt: &canceledAt}
	mockService.On("CancelTicket", mock.Anything, int64(3), int64(5)).Return(ticket, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tickets/5/cancel", nil)
	req.Header.Set(UserIDHeader, "3")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"REFUNDED"`)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_OtherUsersTicket(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService, time.Now())

	mockService.On("CancelTicket", mock.Anything, int64(4), int64(5)).Return(nil, repository.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tickets/5/cancel", nil)
	req.Header.Set(UserIDHeader, "4")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_mine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService, time.Now())

	mockService.On("UserBookings", mock.Anything, int64(3)).Return([]domain.BookingAggregate{
		{ConfirmationID: "A", Status: domain.BookingStatusPartiallyCanceled},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/bookings", nil)
	req.Header.Set(UserIDHeader, "3")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PARTIALLY_CANCELED")
}

func TestBookingHandler_admin_ReversedRange(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService, time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC))

	expected := domain.DateRange{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
	}
	mockService.On("AdminBookings", mock.Anything, expected).Return([]booking.AdminBooking{
		{BookingAggregate: domain.BookingAggregate{ConfirmationID: "A"}, CompanyID: 7, Carrier: "Pobeda"},
	}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/bookings?start=2024-02-05&end=2024-02-01", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company_id":7`)
	assert.Contains(t, w.Body.String(), `"confirmation_id":"A"`)
	mockService.AssertExpectations(t)
}
