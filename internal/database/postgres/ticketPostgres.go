package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// Create inserts the ticket and all of its detail rows in one transaction,
// so a booking is either fully recorded or not recorded at all.
func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tickets (
			event_id, user_id, quantity, total_amount, status, booked_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		ticket.EventID,
		ticket.UserID,
		ticket.Quantity,
		ticket.TotalAmount,
		ticket.Status,
		now,
	).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	detailQuery := `
		INSERT INTO ticket_details (ticket_id, seat_number, attendee_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	for i := range ticket.Details {
		detail := &ticket.Details[i]
		detail.TicketID = ticket.ID
		err = tx.QueryRowContext(ctx, detailQuery,
			ticket.ID,
			detail.SeatNumber,
			detail.AttendeeName,
		).Scan(&detail.ID)
		if err != nil {
			return fmt.Errorf("failed to create ticket detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	ticket.BookedAt = now
	ticket.UpdatedAt = now

	return nil
}

// GetByID retrieves a ticket together with its details
func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, quantity, total_amount, status, booked_at, updated_at
		FROM tickets
		WHERE id = $1
	`

	var ticket entity.Ticket
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.Quantity,
		&ticket.TotalAmount,
		&ticket.Status,
		&ticket.BookedAt,
		&ticket.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	details, err := r.getDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	ticket.Details = details

	return &ticket, nil
}

func (r *ticketRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, quantity, total_amount, status, booked_at, updated_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY booked_at DESC
	`
	return r.queryTickets(ctx, query, userID)
}

func (r *ticketRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, quantity, total_amount, status, booked_at, updated_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY booked_at DESC
	`
	return r.queryTickets(ctx, query, eventID)
}

// UpdateStatusFrom applies a status move only when the ticket still carries
// the expected current status. A concurrent caller racing on the same move
// gets ErrInvalidTransition instead of applying it twice.
func (r *ticketRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.TicketStatus) error {
	query := `UPDATE tickets SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check ticket existence: %w", err)
		}
		if !exists {
			return entity.ErrTicketNotFound
		}
		return entity.ErrInvalidTransition
	}

	return nil
}

// SumActiveQuantity sums the seat quantity held by all non-cancelled tickets
// of an event. Used by the reconciler.
func (r *ticketRepository) SumActiveQuantity(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM tickets
		WHERE event_id = $1 AND status != 'cancelled'
	`

	var sum int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum active ticket quantity: %w", err)
	}

	return sum, nil
}

func (r *ticketRepository) getDetails(ctx context.Context, ticketID int64) ([]entity.TicketDetail, error) {
	query := `
		SELECT id, ticket_id, seat_number, attendee_name
		FROM ticket_details
		WHERE ticket_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket details: %w", err)
	}
	defer rows.Close()

	var details []entity.TicketDetail
	for rows.Next() {
		var detail entity.TicketDetail
		err := rows.Scan(
			&detail.ID,
			&detail.TicketID,
			&detail.SeatNumber,
			&detail.AttendeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket detail: %w", err)
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket details: %w", err)
	}

	return details, nil
}

func (r *ticketRepository) queryTickets(ctx context.Context, query string, args ...interface{}) ([]*entity.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var ticket entity.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.UserID,
			&ticket.Quantity,
			&ticket.TotalAmount,
			&ticket.Status,
			&ticket.BookedAt,
			&ticket.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}
