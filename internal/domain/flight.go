package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Flight struct {
	ID              int64           `json:"id"`
	CompanyID       int64           `json:"company_id"`
	Carrier         string          `json:"carrier"`
	FlightNumber    string          `json:"flight_number"`
	Origin          string          `json:"origin"`
	Destination     string          `json:"destination"`
	DepartureTime   time.Time       `json:"departure_time"`
	ArrivalTime     time.Time       `json:"arrival_time"`
	DurationMinutes int             `json:"duration_minutes"`
	Stops           int             `json:"stops"`
	Price           decimal.Decimal `json:"price"`
	TotalSeats      int             `json:"total_seats"`
	AvailableSeats  int             `json:"available_seats"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
