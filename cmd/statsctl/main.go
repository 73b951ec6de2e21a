package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/engine/stats"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/repository"
	statssvc "github.com/Domenick1991/flightdesk/internal/service/stats"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	scopeFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "scope", Value: "platform", Usage: `"platform" or "company:<id>"`}
	}

	return &cli.App{
		Name:  "statsctl",
		Usage: "Inspect booking statistics and operator watermarks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", EnvVars: []string{"CONFIG_PATH"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "snapshot",
				Usage: "print range statistics as JSON",
				Flags: []cli.Flag{
					scopeFlag(),
					&cli.StringFlag{Name: "preset", Value: stats.PresetLast7Days, Usage: "7d, 30d, this-month or custom"},
					&cli.StringFlag{Name: "start", Usage: "YYYY-MM-DD, custom preset only"},
					&cli.StringFlag{Name: "end", Usage: "YYYY-MM-DD, custom preset only"},
				},
				Action: func(c *cli.Context) error {
					scope, err := statssvc.ParseScope(c.String("scope"))
					if err != nil {
						return err
					}
					svc, closeFn, err := openService(c)
					if err != nil {
						return err
					}
					defer closeFn()

					snap, err := svc.Snapshot(c.Context, statssvc.SnapshotRequest{
						Preset: c.String("preset"),
						Start:  c.String("start"),
						End:    c.String("end"),
						Scope:  scope,
					})
					if err != nil {
						return err
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(snap)
				},
			},
			{
				Name:  "mark-seen",
				Usage: "set the scope watermark to now",
				Flags: []cli.Flag{scopeFlag()},
				Action: func(c *cli.Context) error {
					scope, err := statssvc.ParseScope(c.String("scope"))
					if err != nil {
						return err
					}
					svc, closeFn, err := openService(c)
					if err != nil {
						return err
					}
					defer closeFn()

					at, err := svc.MarkSeen(c.Context, scope)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%s\n", scope, at.Format(time.RFC3339))
					return nil
				},
			},
		},
	}
}

func openService(c *cli.Context) (*statssvc.StatsService, func(), error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logging.Init(cfg.Log.Level)

	pool, err := pgxpool.New(c.Context, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
	watermarks, closeWatermarks, err := bootstrap.WatermarkStore(cfg.Stats, redisCache)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	svc := statssvc.NewStatsService(
		repository.NewTicketRepository(pool),
		repository.NewFlightRepository(pool),
		repository.NewCompanyRepository(pool),
		watermarks,
		stats.Options{
			Location:    cfg.Stats.Location(),
			DisplayDays: cfg.Stats.DisplayDays,
			TopN:        cfg.Stats.TopN,
		},
	)
	return svc, func() {
		closeWatermarks()
		pool.Close()
	}, nil
}
