package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
	"github.com/Videeksha22/event-ticket-booking-system/internal/monitoring"
	"github.com/Videeksha22/event-ticket-booking-system/pkg/telegram"
)

// BookTicketsRequest carries the data for a new booking
type BookTicketsRequest struct {
	EventID   int64    `json:"event_id" binding:"required"`
	UserID    int64    `json:"user_id" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required,min=1,max=50"`
	Attendees []string `json:"attendees"`
}

// TaskPublisher publishes tasks to the background queue
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

// Task represents a queue task
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

// Task type constants
const (
	TaskTypeSendNotification = "send_notification"
	TaskTypeReconcileAlert   = "reconcile_alert"
)

type bookingService struct {
	ticketRepo  repository.TicketRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
	queue       TaskPublisher
	telegramBot *telegram.Bot
	log         *logrus.Logger
}

// NewBookingService creates a new BookingService instance
func NewBookingService(
	ticketRepo repository.TicketRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
	telegramBot *telegram.Bot,
	log *logrus.Logger,
) BookingService {
	return &bookingService{
		ticketRepo:  ticketRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		queue:       queue,
		telegramBot: telegramBot,
		log:         log,
	}
}

// BookTickets reserves seats and creates the ticket with its details.
// The caller observes either a complete booking or no effect at all:
// any failure after the reservation releases the reserved seats.
func (s *bookingService) BookTickets(ctx context.Context, req *BookTicketsRequest) (*entity.Ticket, error) {
	if req.Quantity <= 0 {
		monitoring.TrackBooking("invalid")
		return nil, entity.ErrInvalidQuantity
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		monitoring.TrackBooking("event_not_found")
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if event.Status == entity.EventStatusCancelled {
		monitoring.TrackBooking("event_cancelled")
		return nil, entity.ErrEventCancelled
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		monitoring.TrackBooking("user_not_found")
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.eventRepo.ReserveSeats(ctx, req.EventID, req.Quantity); err != nil {
		if errors.Is(err, entity.ErrNotEnoughSeats) {
			monitoring.TrackLedgerConflict("insufficient_seats")
		}
		monitoring.TrackBooking("reserve_failed")
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}

	ticket := &entity.Ticket{
		EventID:     req.EventID,
		UserID:      req.UserID,
		Quantity:    req.Quantity,
		TotalAmount: float64(req.Quantity) * event.TicketPrice,
		Status:      entity.TicketStatusPending,
		Details:     buildDetails(req.Quantity, req.Attendees),
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		// Compensate: return the seats taken above
		if releaseErr := s.eventRepo.ReleaseSeats(ctx, req.EventID, req.Quantity); releaseErr != nil {
			s.log.WithFields(logrus.Fields{
				"event_id": req.EventID,
				"quantity": req.Quantity,
				"error":    releaseErr,
			}).Error("failed to release seats after booking failure")
		}
		monitoring.TrackBooking("create_failed")
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"event_id":  ticket.EventID,
		"user_id":   ticket.UserID,
		"quantity":  ticket.Quantity,
		"amount":    ticket.TotalAmount,
	}).Info("booking created")

	monitoring.TrackBooking("success")

	if s.queue != nil {
		if err := s.publishNotification(ctx, "ticket_booked", ticket); err != nil {
			s.log.WithError(err).Warn("failed to publish booking notification")
		}
	}

	if s.telegramBot != nil && user.TelegramID != "" {
		go s.sendBookingNotification(ticket, event, user)
	}

	return ticket, nil
}

// buildDetails generates one detail row per seat, filling attendee names from
// the request and defaulting the remainder.
func buildDetails(quantity int, attendees []string) []entity.TicketDetail {
	details := make([]entity.TicketDetail, quantity)
	for i := 0; i < quantity; i++ {
		name := entity.DefaultAttendeeName
		if i < len(attendees) && attendees[i] != "" {
			name = attendees[i]
		}
		details[i] = entity.TicketDetail{
			SeatNumber:   entity.SeatLabel(i + 1),
			AttendeeName: name,
		}
	}
	return details
}

// CancelTicket cancels a ticket and returns its seats to the event.
// The status move is conditional, so the seats are released at most once
// even under concurrent cancellation.
func (s *bookingService) CancelTicket(ctx context.Context, ticketID int64) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	switch ticket.Status {
	case entity.TicketStatusCancelled:
		return entity.ErrAlreadyCancelled
	case entity.TicketStatusRefunded:
		return entity.ErrNotCancellable
	}

	if err := s.ticketRepo.UpdateStatusFrom(ctx, ticketID, ticket.Status, entity.TicketStatusCancelled); err != nil {
		if errors.Is(err, entity.ErrInvalidTransition) {
			// Someone else moved the ticket first
			return entity.ErrAlreadyCancelled
		}
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}

	if err := s.eventRepo.ReleaseSeats(ctx, ticket.EventID, ticket.Quantity); err != nil {
		if errors.Is(err, entity.ErrCapacityOverflow) {
			monitoring.TrackLedgerConflict("capacity_overflow")
			s.log.WithFields(logrus.Fields{
				"ticket_id": ticketID,
				"event_id":  ticket.EventID,
				"quantity":  ticket.Quantity,
			}).Error("seat release exceeds event capacity, ledger needs reconciliation")
			return err
		}
		return fmt.Errorf("failed to release seats: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"event_id":  ticket.EventID,
		"quantity":  ticket.Quantity,
	}).Info("ticket cancelled, seats released")

	if s.queue != nil {
		if err := s.publishNotification(ctx, "ticket_cancelled", ticket); err != nil {
			s.log.WithError(err).Warn("failed to publish cancellation notification")
		}
	}

	return nil
}

func (s *bookingService) GetTicket(ctx context.Context, id int64) (*entity.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

func (s *bookingService) GetUserTickets(ctx context.Context, userID int64) ([]*entity.Ticket, error) {
	tickets, err := s.ticketRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tickets: %w", err)
	}
	return tickets, nil
}

func (s *bookingService) GetEventTickets(ctx context.Context, eventID int64) ([]*entity.Ticket, error) {
	tickets, err := s.ticketRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event tickets: %w", err)
	}
	return tickets, nil
}

func (s *bookingService) publishNotification(ctx context.Context, notificationType string, ticket *entity.Ticket) error {
	task := &Task{
		ID:   fmt.Sprintf("notification_%s_%d_%d", notificationType, ticket.ID, time.Now().Unix()),
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": notificationType,
			"ticket_id":         ticket.ID,
			"event_id":          ticket.EventID,
			"user_id":           ticket.UserID,
			"quantity":          ticket.Quantity,
		},
		ExecuteAt:  time.Now().Add(5 * time.Second),
		MaxRetries: 3,
	}

	return s.queue.Publish(ctx, task)
}

func (s *bookingService) sendBookingNotification(ticket *entity.Ticket, event *entity.Event, user *entity.User) {
	message := fmt.Sprintf(
		"Booking confirmed!\n\n"+
			"Event: %s\n"+
			"Venue: %s\n"+
			"Date: %s\n"+
			"Seats: %d\n"+
			"Total: %.2f\n"+
			"Ticket: #%d\n"+
			"Status: pending payment",
		event.Name,
		event.Venue,
		event.Date.Format("02.01.2006 15:04"),
		ticket.Quantity,
		ticket.TotalAmount,
		ticket.ID,
	)

	if err := s.telegramBot.SendMessage(user.TelegramID, message); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err,
		}).Warn("failed to send telegram notification")
	}
}
