package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/engine/bookings"
	"github.com/Domenick1991/flightdesk/internal/engine/stats"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidScope = errors.New("invalid stats scope")

type StatsUseCase interface {
	Snapshot(ctx context.Context, req SnapshotRequest) (*domain.Snapshot, error)
	MarkSeen(ctx context.Context, scope Scope) (time.Time, error)
	Summary(ctx context.Context, scope Scope) (domain.Summary, error)
}

// WatermarkStore persists the last "mark as seen" instant per report scope.
// A scope that was never marked returns nil.
type WatermarkStore interface {
	GetWatermark(ctx context.Context, scope string) (*time.Time, error)
	SetWatermark(ctx context.Context, scope string, t time.Time) error
}

// Scope selects whose bookings a report covers: the whole platform or a
// single company.
type Scope struct {
	CompanyID int64
}

func PlatformScope() Scope { return Scope{} }

func CompanyScope(id int64) Scope { return Scope{CompanyID: id} }

func (s Scope) IsCompany() bool { return s.CompanyID != 0 }

func (s Scope) String() string {
	if s.IsCompany() {
		return "company:" + strconv.FormatInt(s.CompanyID, 10)
	}
	return "platform"
}

// ParseScope accepts "", "platform" or "company:<id>".
func ParseScope(raw string) (Scope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "platform" {
		return PlatformScope(), nil
	}
	rest, ok := strings.CutPrefix(raw, "company:")
	if !ok {
		return Scope{}, fmt.Errorf("%w: %q", ErrInvalidScope, raw)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return Scope{}, fmt.Errorf("%w: %q", ErrInvalidScope, raw)
	}
	return CompanyScope(id), nil
}

type SnapshotRequest struct {
	Preset string
	Start  string
	End    string
	Scope  Scope
}

type StatsService struct {
	tickets    repository.TicketRepository
	flights    repository.FlightRepository
	companies  repository.CompanyRepository
	watermarks WatermarkStore
	opts       stats.Options
	now        func() time.Time
}

func NewStatsService(
	tickets repository.TicketRepository,
	flights repository.FlightRepository,
	companies repository.CompanyRepository,
	watermarks WatermarkStore,
	opts stats.Options,
) *StatsService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &StatsService{
		tickets:    tickets,
		flights:    flights,
		companies:  companies,
		watermarks: watermarks,
		opts:       opts,
		now:        time.Now,
	}
}

type dataset struct {
	tickets   []domain.Ticket
	flights   []domain.Flight
	companies []domain.Company
}

func (s *StatsService) load(ctx context.Context, withCompanies bool) (dataset, error) {
	var d dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.tickets, err = s.tickets.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.flights, err = s.flights.List(gctx)
		return err
	})
	if withCompanies {
		g.Go(func() (err error) {
			d.companies, err = s.companies.List(gctx)
			return err
		})
	}
	return d, g.Wait()
}

// Snapshot reads the ticket and flight snapshots and the scope watermark,
// then computes range statistics. The platform scope ranks companies; a
// company scope ranks that company's flights.
func (s *StatsService) Snapshot(ctx context.Context, req SnapshotRequest) (*domain.Snapshot, error) {
	d, err := s.load(ctx, !req.Scope.IsCompany())
	if err != nil {
		return nil, fmt.Errorf("load stats data: %w", err)
	}

	watermark, err := s.watermarks.GetWatermark(ctx, req.Scope.String())
	if err != nil {
		return nil, fmt.Errorf("read watermark: %w", err)
	}

	flights := scopeFlights(d.flights, req.Scope)
	byID := lo.KeyBy(flights, func(f domain.Flight) int64 { return f.ID })
	tickets := lo.Filter(d.tickets, func(t domain.Ticket, _ int) bool {
		_, ok := byID[t.FlightID]
		return ok
	})

	var group func(domain.BookingAggregate) (string, string)
	if req.Scope.IsCompany() {
		group = func(a domain.BookingAggregate) (string, string) {
			f := byID[a.FlightID]
			return strconv.FormatInt(f.ID, 10), f.FlightNumber
		}
	} else {
		names := lo.SliceToMap(d.companies, func(c domain.Company) (int64, string) { return c.ID, c.Name })
		group = func(a domain.BookingAggregate) (string, string) {
			f := byID[a.FlightID]
			name, ok := names[f.CompanyID]
			if !ok {
				name = f.Carrier
			}
			return strconv.FormatInt(f.CompanyID, 10), name
		}
	}

	records := stats.BookingRecords(bookings.Aggregate(tickets), group)
	r := stats.ResolvePreset(req.Preset, req.Start, req.End, s.now(), s.opts.Location)

	opts := s.opts
	opts.Watermark = watermark
	snap := stats.RangeStats(records, r, opts)
	return &snap, nil
}

func (s *StatsService) MarkSeen(ctx context.Context, scope Scope) (time.Time, error) {
	now := s.now()
	if err := s.watermarks.SetWatermark(ctx, scope.String(), now); err != nil {
		return time.Time{}, fmt.Errorf("write watermark: %w", err)
	}
	return now, nil
}

func (s *StatsService) Summary(ctx context.Context, scope Scope) (domain.Summary, error) {
	d, err := s.load(ctx, false)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("load stats data: %w", err)
	}

	flights := scopeFlights(d.flights, scope)
	ids := lo.SliceToMap(flights, func(f domain.Flight) (int64, struct{}) { return f.ID, struct{}{} })
	tickets := lo.Filter(d.tickets, func(t domain.Ticket, _ int) bool {
		_, ok := ids[t.FlightID]
		return ok
	})
	return stats.Summarize(flights, tickets, s.now()), nil
}

func scopeFlights(flights []domain.Flight, scope Scope) []domain.Flight {
	if !scope.IsCompany() {
		return flights
	}
	return lo.Filter(flights, func(f domain.Flight, _ int) bool {
		return f.CompanyID == scope.CompanyID
	})
}

var _ StatsUseCase = (*StatsService)(nil)
