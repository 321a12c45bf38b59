package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type ticketTypeRepository struct {
	db *sql.DB
}

func NewTicketTypeRepository(db *sql.DB) TicketTypeRepository {
	return &ticketTypeRepository{db: db}
}

func (r *ticketTypeRepository) Create(ctx context.Context, tt *entity.TicketType) error {
	query := `
		INSERT INTO ticket_types (event_id, type_name, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		tt.EventID,
		tt.TypeName,
		tt.Price,
		tt.Quantity,
	).Scan(&tt.ID)

	if err != nil {
		return fmt.Errorf("failed to create ticket type: %w", err)
	}

	return nil
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id int64) (*entity.TicketType, error) {
	query := `
		SELECT id, event_id, type_name, price, quantity
		FROM ticket_types
		WHERE id = $1
	`

	var tt entity.TicketType
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tt.ID,
		&tt.EventID,
		&tt.TypeName,
		&tt.Price,
		&tt.Quantity,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrTicketTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}

	return &tt, nil
}

func (r *ticketTypeRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.TicketType, error) {
	query := `
		SELECT id, event_id, type_name, price, quantity
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY price ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket types: %w", err)
	}
	defer rows.Close()

	var types []*entity.TicketType
	for rows.Next() {
		var tt entity.TicketType
		err := rows.Scan(
			&tt.ID,
			&tt.EventID,
			&tt.TypeName,
			&tt.Price,
			&tt.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		types = append(types, &tt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket types: %w", err)
	}

	return types, nil
}

// AllocateQuantity decrements the type's own pool with the same
// conditional UPDATE used by the event seat ledger
func (r *ticketTypeRepository) AllocateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return entity.ErrInvalidQuantity
	}

	query := `UPDATE ticket_types SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $1`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to allocate ticket type quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ticket_types WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check ticket type existence: %w", err)
		}
		if !exists {
			return entity.ErrTicketTypeNotFound
		}
		return entity.ErrTypeSoldOut
	}

	return nil
}

func (r *ticketTypeRepository) ReleaseQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return entity.ErrInvalidQuantity
	}

	query := `UPDATE ticket_types SET quantity = quantity + $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to release ticket type quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrTicketTypeNotFound
	}

	return nil
}
