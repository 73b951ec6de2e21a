package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/service/stats"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service stats.StatsUseCase
}

func NewStatsHandler(service stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.snapshot)
	router.POST("/stats/seen", h.markSeen)
	router.GET("/stats/summary", h.summary)
}

func (h *StatsHandler) snapshot(c *gin.Context) {
	scope, err := stats.ParseScope(c.Query("scope"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap, err := h.service.Snapshot(c.Request.Context(), stats.SnapshotRequest{
		Preset: c.Query("preset"),
		Start:  c.Query("start"),
		End:    c.Query("end"),
		Scope:  scope,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *StatsHandler) markSeen(c *gin.Context) {
	scope, err := stats.ParseScope(c.Query("scope"))
	if err != nil {
		writeError(c, err)
		return
	}

	at, err := h.service.MarkSeen(c.Request.Context(), scope)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scope": scope.String(), "watermark": at})
}

func (h *StatsHandler) summary(c *gin.Context) {
	scope, err := stats.ParseScope(c.Query("scope"))
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), scope)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
