package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/internal/engine/stats"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service  booking.BookingUseCase
	location *time.Location
	now      func() time.Time
}

type bookRequest struct {
	Passengers int `json:"passengers" binding:"required"`
}

func NewBookingHandler(service booking.BookingUseCase, loc *time.Location) *BookingHandler {
	return &BookingHandler{service: service, location: loc, now: time.Now}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/flights/:id/book", h.book)
	router.POST("/tickets/:id/cancel", h.cancel)
	router.GET("/bookings", h.mine)
	router.GET("/admin/bookings", h.admin)
}

func (h *BookingHandler) book(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	flightID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agg, err := h.service.BookTickets(c.Request.Context(), booking.BookInput{
		UserID:     uid,
		FlightID:   flightID,
		Passengers: req.Passengers,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agg)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.service.CancelTicket(c.Request.Context(), uid, ticketID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *BookingHandler) mine(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	aggs, err := h.service.UserBookings(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, aggs)
}

// admin lists bookings first purchased between start and end (YYYY-MM-DD,
// inclusive). A missing bound means today.
func (h *BookingHandler) admin(c *gin.Context) {
	r := stats.ParseRange(c.Query("start"), c.Query("end"), h.now(), h.location)

	out, err := h.service.AdminBookings(c.Request.Context(), r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "bookings": out})
}
