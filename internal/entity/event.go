package entity

import (
	"time"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	ID             int64       `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Description    string      `json:"description" db:"description"`
	Venue          string      `json:"venue" db:"venue"`
	Date           time.Time   `json:"date" db:"date"`
	TotalSeats     int         `json:"total_seats" db:"total_seats"`
	AvailableSeats int         `json:"available_seats" db:"available_seats"`
	TicketPrice    float64     `json:"ticket_price" db:"ticket_price"`
	Status         EventStatus `json:"status" db:"status"`
	CreatedBy      int64       `json:"created_by" db:"created_by"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// SoldSeats is the number of seats currently held by non-cancelled tickets,
// derived from the two counters on the row.
func (e *Event) SoldSeats() int {
	return e.TotalSeats - e.AvailableSeats
}

type EventStats struct {
	EventID        int64   `json:"event_id"`
	SoldTickets    int     `json:"sold_tickets"`
	SoldSeats      int     `json:"sold_seats"`
	CancelledSeats int     `json:"cancelled_seats"`
	Revenue        float64 `json:"revenue"`
}
