package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/engine/stats"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	statssvc "github.com/Domenick1991/flightdesk/internal/service/stats"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logging.Init(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	watermarks, closeWatermarks, err := bootstrap.WatermarkStore(cfg.Stats, redisCache)
	if err != nil {
		logrus.Fatalf("open watermark store: %v", err)
	}
	defer closeWatermarks()

	loc := cfg.Stats.Location()
	flightRepo := repository.NewFlightRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache, cfg.Search.PageSize)
	bookingService := booking.NewBookingService(
		ticketRepo,
		flightRepo,
		redisCache,
		cfg.Booking.RefundWindow(),
		cfg.Booking.MaxPassengers,
		booking.WithProducer(producer, cfg.Kafka.TicketEventsTopic),
		booking.WithLocation(loc),
	)
	statsService := statssvc.NewStatsService(ticketRepo, flightRepo, companyRepo, watermarks, stats.Options{
		Location:    loc,
		DisplayDays: cfg.Stats.DisplayDays,
		TopN:        cfg.Stats.TopN,
	})

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Flights:  flightService,
		Bookings: bookingService,
		Stats:    statsService,
		Location: loc,
		Health: map[string]bootstrap.Pinger{
			"postgres": pool,
			"redis":    redisCache,
		},
	})
	if err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
