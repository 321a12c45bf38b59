package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts the payment and applies the forced ticket transition in one
// transaction. The ticket update is conditional on its current status, so a
// concurrent payment of the same ticket cannot produce two paid transitions.
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment, ticketFrom, ticketTo entity.TicketStatus) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	ticketQuery := `UPDATE tickets SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := tx.ExecContext(ctx, ticketQuery, ticketTo, now, payment.TicketID, ticketFrom)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrTicketNotPayable
	}

	query := `
		INSERT INTO payments (
			ticket_id, amount, method, status, transaction_id, paid_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	err = tx.QueryRowContext(ctx, query,
		payment.TicketID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.TransactionID,
		now,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	payment.PaidAt = now
	payment.UpdatedAt = now

	return nil
}

// GetByTicketID retrieves the most recent payment for a ticket
func (r *paymentRepository) GetByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	query := `
		SELECT id, ticket_id, amount, method, status, transaction_id, paid_at, updated_at
		FROM payments
		WHERE ticket_id = $1
		ORDER BY paid_at DESC
		LIMIT 1
	`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, ticketID))
}

// GetSuccessfulByTicketID retrieves the successful payment for a ticket, if any
func (r *paymentRepository) GetSuccessfulByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	query := `
		SELECT id, ticket_id, amount, method, status, transaction_id, paid_at, updated_at
		FROM payments
		WHERE ticket_id = $1 AND status = 'success'
		ORDER BY paid_at DESC
		LIMIT 1
	`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, ticketID))
}

// MarkRefunded flips a successful payment and its ticket to refunded in one
// transaction. The payment update is conditional on status = success, so a
// second refund of the same payment fails cleanly.
func (r *paymentRepository) MarkRefunded(ctx context.Context, paymentID, ticketID int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	query := `UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3 AND status = 'success'`
	result, err := tx.ExecContext(ctx, query, entity.PaymentStatusRefunded, now, paymentID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrNotRefundable
	}

	query = `UPDATE tickets SET status = $1, updated_at = $2 WHERE id = $3 AND status = 'paid'`
	result, err = tx.ExecContext(ctx, query, entity.TicketStatusRefunded, now, ticketID)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *paymentRepository) scanPayment(row *sql.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.TicketID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.TransactionID,
		&payment.PaidAt,
		&payment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}
