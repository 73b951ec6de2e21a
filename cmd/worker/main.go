package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/notify"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
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
	flightService := flights.NewFlightService(repository.NewFlightRepository(pool), redisCache, cfg.Search.PageSize)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	sender := notify.NewSender(producer, cfg.Kafka.NotificationsTopic)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.TicketEventsTopic)
	defer consumer.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeTicketEvents(ctx, func(ctx context.Context, event kafka.TicketEvent) error {
			if err := sender.Send(ctx, event); err != nil {
				metrics.EventsProcessed.WithLabelValues(string(event.Type), "error").Inc()
				return err
			}
			metrics.EventsProcessed.WithLabelValues(string(event.Type), "ok").Inc()
			return nil
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.Worker.CacheRefreshMinutes) * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := flightService.Refresh(ctx)
				if err != nil {
					logrus.WithError(err).Warn("refresh flights cache")
					continue
				}
				logrus.WithField("flights", n).Debug("flights cache refreshed")
			case <-ctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		logrus.Fatalf("worker stopped: %v", err)
	}
	logrus.Info("worker shut down")
}
