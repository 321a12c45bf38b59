package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

// The handlers consume narrow views of the application services, declared
// on the consumer side. The service layer publishes through this package,
// so it must not be imported back here.

// BookingService loads tickets for notification context
type BookingService interface {
	GetTicket(ctx context.Context, id int64) (*entity.Ticket, error)
	GetEventTickets(ctx context.Context, eventID int64) ([]*entity.Ticket, error)
}

// EventService loads events for notification context
type EventService interface {
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
}

// UserService resolves ticket owners to their delivery addresses
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
}

// TelegramBot is the delivery interface for notifications
type TelegramBot interface {
	SendMessage(chatID, text string) error
}

// TaskHandler processes tasks consumed from the queue
type TaskHandler struct {
	bookingService BookingService
	eventService   EventService
	userService    UserService
	telegramBot    TelegramBot
	adminChatID    string
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(
	bookingService BookingService,
	eventService EventService,
	userService UserService,
	telegramBot TelegramBot,
	adminChatID string,
) *TaskHandler {
	return &TaskHandler{
		bookingService: bookingService,
		eventService:   eventService,
		userService:    userService,
		telegramBot:    telegramBot,
		adminChatID:    adminChatID,
	}
}

// HandleTask dispatches a task by its type
func (h *TaskHandler) HandleTask(task *Task) error {
	log.Printf("Processing task %s of type %s (attempt %d/%d)",
		task.ID, task.Type, task.Attempts, task.MaxRetries)

	switch task.Type {
	case TaskTypeSendNotification:
		return h.handleSendNotification(task)
	case TaskTypeReconcileAlert:
		return h.handleReconcileAlert(task)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

// handleSendNotification dispatches ticket lifecycle notifications
func (h *TaskHandler) handleSendNotification(task *Task) error {
	notificationType := task.GetString("notification_type")
	if notificationType == "" {
		return fmt.Errorf("invalid notification_type in task data")
	}

	switch notificationType {
	case "ticket_booked":
		return h.handleTicketNotification(task, "Tickets booked!\n\nEvent: %s\nDate: %s\nSeats: %d\nTicket: #%d\nStatus: pending payment\n\nComplete the payment to secure your seats.")
	case "ticket_cancelled":
		return h.handleTicketNotification(task, "Ticket cancelled\n\nEvent: %s\nDate: %s\nSeats: %d\nTicket: #%d\n\nThe seats were returned to the event.")
	case "payment_received":
		return h.handlePaymentNotification(task, "Payment received\n\nEvent: %s\nDate: %s\nSeats: %d\nTicket: #%d\nAmount: %.2f\nTransaction: %s\n\nSee you at the event!")
	case "payment_refunded":
		return h.handlePaymentNotification(task, "Payment refunded\n\nEvent: %s\nDate: %s\nSeats: %d\nTicket: #%d\nAmount: %.2f\nTransaction: %s\n\nThe refund may take 3-5 business days.")
	case "event_cancelled":
		return h.handleEventCancelledNotification(task)
	default:
		return fmt.Errorf("unknown notification type: %s", notificationType)
	}
}

// handleTicketNotification sends a ticket lifecycle message to its owner
func (h *TaskHandler) handleTicketNotification(task *Task, format string) error {
	ctx := context.Background()

	ticketID := task.GetInt64("ticket_id")
	if ticketID == 0 {
		return fmt.Errorf("invalid ticket_id in task data")
	}

	ticket, event, user, err := h.loadTicketContext(ctx, ticketID)
	if err != nil {
		return err
	}

	if user.TelegramID == "" || h.telegramBot == nil {
		return nil
	}

	message := fmt.Sprintf(format,
		event.Name,
		event.Date.Format("02.01.2006 15:04"),
		ticket.Quantity,
		ticket.ID,
	)

	if err := h.telegramBot.SendMessage(user.TelegramID, message); err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}

	log.Printf("Sent %s notification for ticket %d to user %d", task.GetString("notification_type"), ticket.ID, user.ID)
	return nil
}

// handlePaymentNotification sends a payment message with amount and transaction id
func (h *TaskHandler) handlePaymentNotification(task *Task, format string) error {
	ctx := context.Background()

	ticketID := task.GetInt64("ticket_id")
	if ticketID == 0 {
		return fmt.Errorf("invalid ticket_id in task data")
	}

	ticket, event, user, err := h.loadTicketContext(ctx, ticketID)
	if err != nil {
		return err
	}

	if user.TelegramID == "" || h.telegramBot == nil {
		return nil
	}

	message := fmt.Sprintf(format,
		event.Name,
		event.Date.Format("02.01.2006 15:04"),
		ticket.Quantity,
		ticket.ID,
		task.GetFloat("amount"),
		task.GetString("transaction_id"),
	)

	if err := h.telegramBot.SendMessage(user.TelegramID, message); err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}

	log.Printf("Sent %s notification for ticket %d to user %d", task.GetString("notification_type"), ticket.ID, user.ID)
	return nil
}

// handleEventCancelledNotification notifies every holder of an active ticket
func (h *TaskHandler) handleEventCancelledNotification(task *Task) error {
	ctx := context.Background()

	eventID := task.GetInt64("event_id")
	if eventID == 0 {
		return fmt.Errorf("invalid event_id in task data")
	}

	reason := task.GetString("reason")
	if reason == "" {
		reason = "for technical reasons"
	}

	event, err := h.eventService.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event %d: %v", eventID, err)
	}

	tickets, err := h.bookingService.GetEventTickets(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get tickets for event %d: %v", eventID, err)
	}

	sentCount := 0
	for _, ticket := range tickets {
		if ticket.Status == entity.TicketStatusCancelled || ticket.Status == entity.TicketStatusRefunded {
			continue
		}

		user, err := h.userService.GetUserByID(ctx, ticket.UserID)
		if err != nil {
			log.Printf("Failed to get user %d for cancellation notice: %v", ticket.UserID, err)
			continue
		}

		if user.TelegramID == "" || h.telegramBot == nil {
			continue
		}

		message := fmt.Sprintf(
			"Event cancelled\n\n"+
				"Event: %s\n"+
				"Date: %s\n"+
				"Reason: %s\n\n"+
				"We apologize for the inconvenience. "+
				"Paid tickets will be refunded within 3-5 business days.",
			event.Name,
			event.Date.Format("02.01.2006 15:04"),
			reason,
		)

		if err := h.telegramBot.SendMessage(user.TelegramID, message); err != nil {
			log.Printf("Failed to send cancellation notice to user %d: %v", user.ID, err)
		} else {
			sentCount++
		}
	}

	log.Printf("Sent event %d cancellation notices to %d users", eventID, sentCount)
	return nil
}

// handleReconcileAlert delivers an inventory discrepancy alert to the admin chat
func (h *TaskHandler) handleReconcileAlert(task *Task) error {
	eventID := task.GetInt64("event_id")
	if eventID == 0 {
		return fmt.Errorf("invalid event_id in task data")
	}

	if h.telegramBot == nil || h.adminChatID == "" {
		log.Printf("Reconcile alert for event %d: drift=%d (no admin chat configured)",
			eventID, task.GetInt("drift"))
		return nil
	}

	message := fmt.Sprintf(
		"Seat inventory discrepancy\n\n"+
			"Event: #%d\n"+
			"Expected total: %d\n"+
			"Ledger accounts for: %d\n"+
			"Drift: %+d seats\n\n"+
			"Manual reconciliation required.",
		eventID,
		task.GetInt("expected"),
		task.GetInt("actual"),
		task.GetInt("drift"),
	)

	if err := h.telegramBot.SendMessage(h.adminChatID, message); err != nil {
		return fmt.Errorf("failed to send reconcile alert: %v", err)
	}

	log.Printf("Sent reconcile alert for event %d", eventID)
	return nil
}

// loadTicketContext loads the ticket with its event and owner
func (h *TaskHandler) loadTicketContext(ctx context.Context, ticketID int64) (*entity.Ticket, *entity.Event, *entity.User, error) {
	ticket, err := h.bookingService.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get ticket %d: %v", ticketID, err)
	}

	event, err := h.eventService.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get event %d: %v", ticket.EventID, err)
	}

	user, err := h.userService.GetUserByID(ctx, ticket.UserID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get user %d: %v", ticket.UserID, err)
	}

	return ticket, event, user, nil
}
