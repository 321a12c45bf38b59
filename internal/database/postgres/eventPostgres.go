package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, name, description, venue, date, total_seats, available_seats,
	ticket_price, status, created_by, created_at, updated_at
`

func scanEvent(row interface{ Scan(...interface{}) error }) (*entity.Event, error) {
	var event entity.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Venue,
		&event.Date,
		&event.TotalSeats,
		&event.AvailableSeats,
		&event.TicketPrice,
		&event.Status,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event. Available seats start equal to total seats.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (
			name, description, venue, date, total_seats, available_seats,
			ticket_price, status, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Description,
		event.Venue,
		event.Date,
		event.TotalSeats,
		event.TicketPrice,
		event.Status,
		event.CreatedBy,
		now,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	event.AvailableSeats = event.TotalSeats
	event.CreatedAt = now
	event.UpdatedAt = now

	return nil
}

// GetByID retrieves an event by its ID
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`
	return r.queryEvents(ctx, query)
}

// GetUpcoming retrieves events with a future date that are not cancelled
func (r *eventRepository) GetUpcoming(ctx context.Context, limit int) ([]*entity.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date > NOW() AND status != 'cancelled'
		ORDER BY date ASC
		LIMIT $1
	`
	return r.queryEvents(ctx, query, limit)
}

func (r *eventRepository) GetByOrganizer(ctx context.Context, organizerID int64) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE created_by = $1 ORDER BY date ASC`
	return r.queryEvents(ctx, query, organizerID)
}

// GetByDateBefore retrieves events dated before the given time, filtered by
// status. Used by the scheduler to roll statuses forward.
func (r *eventRepository) GetByDateBefore(ctx context.Context, before time.Time, statuses []entity.EventStatus) ([]*entity.Event, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date < $1 AND status = ANY($2)
		ORDER BY date ASC
	`
	return r.queryEvents(ctx, query, before, pq.Array(raw))
}

// Update modifies the mutable fields of an event
func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, venue = $3, date = $4,
		    ticket_price = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Description,
		event.Venue,
		event.Date,
		event.TicketPrice,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

// ReserveSeats atomically decrements available seats. The decrement and the
// availability check are a single conditional UPDATE, so concurrent
// reservations can never drive the counter below zero.
func (r *eventRepository) ReserveSeats(ctx context.Context, eventID int64, quantity int) error {
	if quantity <= 0 {
		return entity.ErrInvalidQuantity
	}

	query := `
		UPDATE events
		SET available_seats = available_seats - $1, updated_at = $2
		WHERE id = $3 AND available_seats >= $1
	`

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now(), eventID)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Zero rows means either the event is missing or the predicate failed
		return r.classifyLedgerMiss(ctx, eventID, entity.ErrNotEnoughSeats)
	}

	return nil
}

// ReleaseSeats atomically increments available seats, capped at total seats.
// A release that would overflow the capacity is rejected, not clamped.
func (r *eventRepository) ReleaseSeats(ctx context.Context, eventID int64, quantity int) error {
	if quantity <= 0 {
		return entity.ErrInvalidQuantity
	}

	query := `
		UPDATE events
		SET available_seats = available_seats + $1, updated_at = $2
		WHERE id = $3 AND available_seats + $1 <= total_seats
	`

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now(), eventID)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return r.classifyLedgerMiss(ctx, eventID, entity.ErrCapacityOverflow)
	}

	return nil
}

// classifyLedgerMiss distinguishes a missing event from a failed ledger
// predicate after a zero-row conditional UPDATE.
func (r *eventRepository) classifyLedgerMiss(ctx context.Context, eventID int64, predicateErr error) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	if !exists {
		return entity.ErrEventNotFound
	}
	return predicateErr
}

// GetStats returns the ticket summary for an event
func (r *eventRepository) GetStats(ctx context.Context, eventID int64) (*entity.EventStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN t.status = 'paid' THEN 1 ELSE 0 END), 0) as sold_tickets,
			COALESCE(SUM(CASE WHEN t.status != 'cancelled' THEN t.quantity ELSE 0 END), 0) as sold_seats,
			COALESCE(SUM(CASE WHEN t.status = 'cancelled' THEN t.quantity ELSE 0 END), 0) as cancelled_seats,
			COALESCE(SUM(CASE WHEN t.status = 'paid' THEN t.total_amount ELSE 0 END), 0) as revenue
		FROM tickets t
		WHERE t.event_id = $1
	`

	stats := entity.EventStats{EventID: eventID}
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&stats.SoldTickets,
		&stats.SoldSeats,
		&stats.CancelledSeats,
		&stats.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}

	return &stats, nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
