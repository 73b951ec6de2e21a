package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/engine/search"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.list)
	router.GET("/flights/:id", h.get)
}

// list searches the inventory. Every query parameter is optional and
// malformed values are ignored; page defaults to 1.
func (h *FlightHandler) list(c *gin.Context) {
	q := search.ParseQuery(c.Request.URL.Query())

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.service.Search(c.Request.Context(), q, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
