package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/api"
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/Domenick1991/flightdesk/internal/service/stats"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a dependency checked by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Stats    stats.StatsUseCase
	Location *time.Location
	Health   map[string]Pinger
}

// Run serves the HTTP API and blocks until ctx is canceled or the server
// fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.FromContext(ctx).WithField("addr", cfg.HTTP.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(), metrics.Middleware())

	r.GET("/health", healthHandler(svc.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := &r.RouterGroup
	api.NewFlightHandler(svc.Flights).Register(root)
	api.NewBookingHandler(svc.Bookings, svc.Location).Register(root)
	api.NewStatsHandler(svc.Stats).Register(root)
	return r
}

func healthHandler(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(gin.H, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}
		c.JSON(status, checks)
	}
}
