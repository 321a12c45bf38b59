package entity

import (
	"fmt"
	"time"
)

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusPaid      TicketStatus = "paid"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusRefunded  TicketStatus = "refunded"
)

// ticketTransitions is the closed set of legal status moves.
// Cancelled and refunded are terminal.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending: {TicketStatusPaid, TicketStatusCancelled},
	TicketStatusPaid:    {TicketStatusCancelled, TicketStatusRefunded},
}

// CanTransition reports whether a ticket may move from one status to another.
func (s TicketStatus) CanTransition(to TicketStatus) bool {
	for _, next := range ticketTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s TicketStatus) IsTerminal() bool {
	return len(ticketTransitions[s]) == 0
}

type Ticket struct {
	ID          int64        `json:"id" db:"id"`
	EventID     int64        `json:"event_id" db:"event_id"`
	UserID      int64        `json:"user_id" db:"user_id"`
	Quantity    int          `json:"quantity" db:"quantity"`
	TotalAmount float64      `json:"total_amount" db:"total_amount"`
	Status      TicketStatus `json:"status" db:"status"`
	BookedAt    time.Time    `json:"booked_at" db:"booked_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`

	Details []TicketDetail `json:"details,omitempty"`
}

type TicketDetail struct {
	ID           int64  `json:"id" db:"id"`
	TicketID     int64  `json:"ticket_id" db:"ticket_id"`
	SeatNumber   string `json:"seat_number" db:"seat_number"`
	AttendeeName string `json:"attendee_name" db:"attendee_name"`
}

// DefaultAttendeeName is used when a booking supplies fewer attendee names
// than its quantity.
const DefaultAttendeeName = "Guest"

// seatsPerRow fixes the layout used for generated seat labels.
const seatsPerRow = 10

// SeatLabel renders the label for the i-th seat of a booking, 1-based.
// Seats fill row A first, then B, ten per row: A-1 .. A-10, B-1 ...
func SeatLabel(index int) string {
	row := (index-1)/seatsPerRow + 1
	seat := (index-1)%seatsPerRow + 1
	return fmt.Sprintf("%c-%d", 'A'+row-1, seat)
}
