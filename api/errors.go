package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/stats"
	"github.com/gin-gonic/gin"
)

const UserIDHeader = "X-User-ID"

var errMissingUser = errors.New("missing or invalid " + UserIDHeader + " header")

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrNotEnoughSeats), errors.Is(err, repository.ErrFlightInactive):
		return http.StatusConflict
	case errors.Is(err, booking.ErrInvalidPassengers), errors.Is(err, stats.ErrInvalidScope):
		return http.StatusBadRequest
	case errors.Is(err, errMissingUser):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as JSON. Server errors are attached to the context
// for the logging middleware and their text is not exposed.
func writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, gin.H{"error": http.StatusText(code)})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// userID reads the caller id set by the authenticating proxy.
func userID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.GetHeader(UserIDHeader), 10, 64)
	if err != nil || id <= 0 {
		return 0, errMissingUser
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
