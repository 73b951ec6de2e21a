package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPurchase describes one booking request: passengers seats on a flight
// bought by a user under a single confirmation id.
type NewPurchase struct {
	UserID         int64
	FlightID       int64
	Passengers     int
	ConfirmationID string
	PurchasedAt    time.Time
}

// Cancellation is the outcome of a cancel request. Changed is false when the
// ticket was already in a terminal state.
type Cancellation struct {
	Ticket  domain.Ticket
	Flight  domain.Flight
	Changed bool
}

type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	Purchase(ctx context.Context, p NewPurchase) ([]domain.Ticket, error)
	Cancel(ctx context.Context, ticketID, userID int64, at time.Time, refundWindow time.Duration) (*Cancellation, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const selectTickets = `SELECT id, user_id, flight_id, status, confirmation_id, price_paid, purchased_at, canceled_at FROM tickets`

func (r *PGTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.query(ctx, selectTickets+` ORDER BY id`)
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	return r.query(ctx, selectTickets+` WHERE user_id=$1 ORDER BY id`, userID)
}

func (r *PGTicketRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Purchase locks the flight row, takes the seats and writes one PAID ticket
// per passenger at the current flight price.
func (r *PGTicketRepository) Purchase(ctx context.Context, p NewPurchase) ([]domain.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	flight, err := scanFlight(tx.QueryRow(ctx, selectFlights+` WHERE f.id=$1 FOR UPDATE OF f`, p.FlightID))
	if err != nil {
		return nil, err
	}
	if !flight.Active {
		return nil, ErrFlightInactive
	}
	if flight.AvailableSeats < p.Passengers {
		return nil, ErrNotEnoughSeats
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET seats_available = seats_available - $1, updated_at = now() WHERE id=$2`, p.Passengers, p.FlightID); err != nil {
		return nil, fmt.Errorf("take seats: %w", err)
	}

	tickets := make([]domain.Ticket, 0, p.Passengers)
	for i := 0; i < p.Passengers; i++ {
		t := domain.Ticket{
			UserID:         p.UserID,
			FlightID:       p.FlightID,
			Status:         domain.TicketStatusPaid,
			ConfirmationID: p.ConfirmationID,
			PricePaid:      flight.Price,
			PurchasedAt:    p.PurchasedAt,
		}
		if err := tx.QueryRow(ctx, `INSERT INTO tickets (user_id, flight_id, status, confirmation_id, price_paid, purchased_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`, t.UserID, t.FlightID, t.Status, t.ConfirmationID, t.PricePaid, t.PurchasedAt).Scan(&t.ID); err != nil {
			return nil, fmt.Errorf("insert ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Cancel applies the ticket state transition under a row lock. The seat goes
// back to the flight only when the ticket actually changed state.
func (r *PGTicketRepository) Cancel(ctx context.Context, ticketID, userID int64, at time.Time, refundWindow time.Duration) (*Cancellation, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket, err := scanTicket(tx.QueryRow(ctx, selectTickets+` WHERE id=$1 AND user_id=$2 FOR UPDATE`, ticketID, userID))
	if err != nil {
		return nil, err
	}
	flight, err := scanFlight(tx.QueryRow(ctx, selectFlights+` WHERE f.id=$1 FOR UPDATE OF f`, ticket.FlightID))
	if err != nil {
		return nil, err
	}

	res := &Cancellation{Ticket: ticket, Flight: flight}
	if !res.Ticket.Cancel(at, flight.DepartureTime, refundWindow) {
		return res, nil
	}
	res.Changed = true

	if _, err := tx.Exec(ctx, `UPDATE tickets SET status=$1, canceled_at=$2 WHERE id=$3`, res.Ticket.Status, res.Ticket.CanceledAt, ticketID); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE flights SET seats_available = seats_available + 1, updated_at = now() WHERE id=$1`, flight.ID); err != nil {
		return nil, fmt.Errorf("release seat: %w", err)
	}
	res.Flight.AvailableSeats++

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.UserID, &t.FlightID, &t.Status, &t.ConfirmationID, &t.PricePaid, &t.PurchasedAt, &t.CanceledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("scan ticket: %w", err)
	}
	return t, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
