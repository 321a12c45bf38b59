package entity

// TicketType is a named per-event category with its own quantity pool.
// The pool is allocated independently of the event's seat counters and is
// not reconciled against them.
type TicketType struct {
	ID       int64   `json:"id" db:"id"`
	EventID  int64   `json:"event_id" db:"event_id"`
	TypeName string  `json:"type_name" db:"type_name"`
	Price    float64 `json:"price" db:"price"`
	Quantity int     `json:"quantity" db:"quantity"`
}
