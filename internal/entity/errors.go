package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound     = errors.New("event not found")
	ErrEventCancelled    = errors.New("event is cancelled")
	ErrEventDatePast     = errors.New("event date cannot be in the past")
	ErrNotEnoughSeats    = errors.New("not enough available seats")
	ErrCapacityOverflow  = errors.New("seat release exceeds total capacity")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidTotalSeats = errors.New("total seats must be positive")

	// Ticket errors
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrAlreadyCancelled  = errors.New("ticket is already cancelled")
	ErrNotCancellable    = errors.New("ticket cannot be cancelled")
	ErrInvalidTransition = errors.New("invalid ticket status transition")

	// Payment errors
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyPaid      = errors.New("ticket is already paid")
	ErrTicketNotPayable = errors.New("ticket cannot be paid")
	ErrAmountMismatch   = errors.New("payment amount does not match ticket total")
	ErrNotRefundable    = errors.New("no successful payment to refund")

	// Ticket type errors
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTypeSoldOut        = errors.New("ticket type is sold out")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrForbidden     = errors.New("forbidden operation")
)
