package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const selectFlights = `SELECT f.id, f.company_id, c.name, f.flight_number, f.origin, f.destination,
	f.departure_time, f.arrival_time, f.duration_minutes, f.stops, f.price,
	f.seats_total, f.seats_available, f.active, f.created_at, f.updated_at
	FROM flights f JOIN airline_companies c ON c.id = f.company_id`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, selectFlights+` ORDER BY f.departure_time, f.id`)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, selectFlights+` WHERE f.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.CompanyID, &f.Carrier, &f.FlightNumber, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.Stops, &f.Price,
		&f.TotalSeats, &f.AvailableSeats, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return f, ErrNotFound
	}
	if err != nil {
		return f, fmt.Errorf("scan flight: %w", err)
	}
	return f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
