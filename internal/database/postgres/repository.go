package repository

import (
	"context"
	"time"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type EventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error

	// Query operations
	GetUpcoming(ctx context.Context, limit int) ([]*entity.Event, error)
	GetByOrganizer(ctx context.Context, organizerID int64) ([]*entity.Event, error)
	GetByDateBefore(ctx context.Context, before time.Time, statuses []entity.EventStatus) ([]*entity.Event, error)

	// Seat ledger operations
	ReserveSeats(ctx context.Context, eventID int64, quantity int) error
	ReleaseSeats(ctx context.Context, eventID int64, quantity int) error

	// Statistical operations
	GetStats(ctx context.Context, eventID int64) (*entity.EventStats, error)
}

type TicketRepository interface {
	// Create inserts the ticket together with its detail rows in one transaction
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id int64) (*entity.Ticket, error)
	GetByUserID(ctx context.Context, userID int64) ([]*entity.Ticket, error)
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.Ticket, error)

	// UpdateStatusFrom moves a ticket between statuses only when it still has
	// the expected one, so concurrent callers cannot apply the same move twice
	UpdateStatusFrom(ctx context.Context, id int64, from, to entity.TicketStatus) error

	// SumActiveQuantity sums the quantity of all non-cancelled tickets of an event
	SumActiveQuantity(ctx context.Context, eventID int64) (int, error)
}

type PaymentRepository interface {
	// Create inserts the payment and applies the forced ticket status in one
	// transaction; the ticket update is conditional on its current status
	Create(ctx context.Context, payment *entity.Payment, ticketFrom, ticketTo entity.TicketStatus) error
	GetByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error)
	GetSuccessfulByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error)

	// MarkRefunded flips a successful payment and its ticket to refunded atomically
	MarkRefunded(ctx context.Context, paymentID, ticketID int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateTelegramID(ctx context.Context, userID int64, telegramID string) error
}

type TicketTypeRepository interface {
	Create(ctx context.Context, tt *entity.TicketType) error
	GetByID(ctx context.Context, id int64) (*entity.TicketType, error)
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.TicketType, error)

	// AllocateQuantity and ReleaseQuantity adjust the type's own pool,
	// independent of the event seat ledger
	AllocateQuantity(ctx context.Context, id int64, quantity int) error
	ReleaseQuantity(ctx context.Context, id int64, quantity int) error
}
