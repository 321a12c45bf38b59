package service

import (
	"context"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type EventService interface {
	// Basic operations
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	GetAllEvents(ctx context.Context) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, id int64, req *UpdateEventRequest) (*entity.Event, error)
	CancelEvent(ctx context.Context, id int64, organizerID int64) error

	// Query operations
	GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.Event, error)
	GetOrganizerEvents(ctx context.Context, organizerID int64) ([]*entity.Event, error)
	GetEventStats(ctx context.Context, eventID int64) (*entity.EventStats, error)
}

// BookingService runs the booking workflow: seat reservation, ticket
// creation with per-seat details, and the cancel path that returns seats.
type BookingService interface {
	BookTickets(ctx context.Context, req *BookTicketsRequest) (*entity.Ticket, error)
	CancelTicket(ctx context.Context, ticketID int64) error
	GetTicket(ctx context.Context, id int64) (*entity.Ticket, error)
	GetUserTickets(ctx context.Context, userID int64) ([]*entity.Ticket, error)
	GetEventTickets(ctx context.Context, eventID int64) ([]*entity.Ticket, error)
}

// PaymentService drives the ticket payment state machine
type PaymentService interface {
	ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*entity.Payment, error)
	RefundPayment(ctx context.Context, ticketID int64) (*entity.Payment, error)
	GetPayment(ctx context.Context, ticketID int64) (*entity.Payment, error)
}

// ReconcilerService checks the seat conservation invariant:
// available seats plus seats held by non-cancelled tickets equal total seats.
type ReconcilerService interface {
	ReconcileEvent(ctx context.Context, eventID int64) (*Discrepancy, error)
	ReconcileAll(ctx context.Context) ([]*Discrepancy, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error)
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	LinkTelegram(ctx context.Context, userID int64, telegramID string) error
}

type TicketTypeService interface {
	CreateTicketType(ctx context.Context, req *CreateTicketTypeRequest) (*entity.TicketType, error)
	GetEventTicketTypes(ctx context.Context, eventID int64) ([]*entity.TicketType, error)
	AllocateTicketType(ctx context.Context, typeID int64, quantity int) error
	ReleaseTicketType(ctx context.Context, typeID int64, quantity int) error
}
