package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
	"github.com/Videeksha22/event-ticket-booking-system/internal/monitoring"
)

// ProcessPaymentRequest carries the data for paying a ticket
type ProcessPaymentRequest struct {
	TicketID int64   `json:"ticket_id"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Method   string  `json:"method" binding:"required"`
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	ticketRepo  repository.TicketRepository
	queue       TaskPublisher
	log         *logrus.Logger
}

// NewPaymentService creates a new PaymentService instance
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	ticketRepo repository.TicketRepository,
	queue TaskPublisher,
	log *logrus.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		ticketRepo:  ticketRepo,
		queue:       queue,
		log:         log,
	}
}

// ProcessPayment pays a pending ticket. The amount must match the ticket
// total within the epsilon, and the payment row plus the ticket transition
// to paid are persisted atomically. Nothing is stored when any check fails.
func (s *paymentService) ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*entity.Payment, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		monitoring.TrackPayment("process", "ticket_not_found")
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	switch ticket.Status {
	case entity.TicketStatusPaid:
		monitoring.TrackPayment("process", "already_paid")
		return nil, entity.ErrAlreadyPaid
	case entity.TicketStatusCancelled, entity.TicketStatusRefunded:
		monitoring.TrackPayment("process", "not_payable")
		return nil, entity.ErrTicketNotPayable
	}

	if !entity.AmountMatches(ticket.TotalAmount, req.Amount) {
		monitoring.TrackPayment("process", "amount_mismatch")
		return nil, entity.ErrAmountMismatch
	}

	transactionID, err := generateTransactionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	payment := &entity.Payment{
		TicketID:      req.TicketID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        entity.PaymentStatusSuccess,
		TransactionID: transactionID,
	}

	ticketTo, _ := entity.PaymentStatusSuccess.TicketStatusFor()
	if err := s.paymentRepo.Create(ctx, payment, entity.TicketStatusPending, ticketTo); err != nil {
		monitoring.TrackPayment("process", "failed")
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id":      req.TicketID,
		"amount":         req.Amount,
		"method":         req.Method,
		"transaction_id": transactionID,
	}).Info("payment processed")

	monitoring.TrackPayment("process", "success")

	if s.queue != nil {
		s.publishPaymentNotification(ctx, "payment_received", ticket, payment)
	}

	return payment, nil
}

// RefundPayment refunds the successful payment of a ticket. The payment and
// the ticket both move to refunded; the ticket's seats stay with the event.
func (s *paymentService) RefundPayment(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		monitoring.TrackPayment("refund", "ticket_not_found")
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	payment, err := s.paymentRepo.GetSuccessfulByTicketID(ctx, ticketID)
	if err != nil {
		monitoring.TrackPayment("refund", "not_refundable")
		if errors.Is(err, entity.ErrPaymentNotFound) {
			return nil, entity.ErrNotRefundable
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if err := s.paymentRepo.MarkRefunded(ctx, payment.ID, ticketID); err != nil {
		monitoring.TrackPayment("refund", "failed")
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}

	payment.Status = entity.PaymentStatusRefunded

	s.log.WithFields(logrus.Fields{
		"ticket_id":      ticketID,
		"payment_id":     payment.ID,
		"amount":         payment.Amount,
		"transaction_id": payment.TransactionID,
	}).Info("payment refunded")

	monitoring.TrackPayment("refund", "success")

	if s.queue != nil {
		s.publishPaymentNotification(ctx, "payment_refunded", ticket, payment)
	}

	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// transactionIDBytes gives 8 uppercase hex characters after encoding
const transactionIDBytes = 4

// generateTransactionID produces an id of the form "TXN" followed by
// 8 uppercase hex characters.
func generateTransactionID() (string, error) {
	buf := make([]byte, transactionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "TXN" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *paymentService) publishPaymentNotification(ctx context.Context, notificationType string, ticket *entity.Ticket, payment *entity.Payment) {
	task := &Task{
		ID:   fmt.Sprintf("notification_%s_%d_%d", notificationType, ticket.ID, time.Now().Unix()),
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": notificationType,
			"ticket_id":         ticket.ID,
			"event_id":          ticket.EventID,
			"user_id":           ticket.UserID,
			"amount":            payment.Amount,
			"transaction_id":    payment.TransactionID,
		},
		ExecuteAt:  time.Now().Add(2 * time.Second),
		MaxRetries: 3,
	}

	if err := s.queue.Publish(ctx, task); err != nil {
		s.log.WithError(err).Warn("failed to publish payment notification")
	}
}
