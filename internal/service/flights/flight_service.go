package flights

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/engine/search"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Search(ctx context.Context, q search.Query, page int) (search.Page[domain.Flight], error)
	Refresh(ctx context.Context) (int, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type FlightService struct {
	repo     repository.FlightRepository
	cache    FlightCache
	pageSize int
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, pageSize int) *FlightService {
	return &FlightService{repo: repo, cache: cache, pageSize: pageSize}
}

// List returns the inventory snapshot, served from cache when possible.
// Cache failures fall through to the database.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		switch {
		case err != nil:
			metrics.FlightsCacheHits.WithLabelValues("error").Inc()
			logging.FromContext(ctx).WithError(err).Warn("flights cache read failed")
		case cached != nil:
			metrics.FlightsCacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.FlightsCacheHits.WithLabelValues("miss").Inc()
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			logging.FromContext(ctx).WithError(err).Warn("flights cache write failed")
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Search(ctx context.Context, q search.Query, page int) (search.Page[domain.Flight], error) {
	flights, err := s.List(ctx)
	if err != nil {
		return search.Page[domain.Flight]{}, err
	}
	return search.Paginate(search.Search(flights, q), page, s.pageSize), nil
}

// Refresh reloads the snapshot from the database into the cache and returns
// the number of flights cached.
func (s *FlightService) Refresh(ctx context.Context) (int, error) {
	flights, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache == nil {
		return len(flights), nil
	}
	if err := s.cache.SetFlights(ctx, flights); err != nil {
		return 0, fmt.Errorf("refresh flights cache: %w", err)
	}
	return len(flights), nil
}

var _ FlightUseCase = (*FlightService)(nil)
