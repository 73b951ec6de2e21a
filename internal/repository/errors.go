package repository

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNotEnoughSeats = errors.New("not enough seats available")
	ErrFlightInactive = errors.New("flight is not active")
)
