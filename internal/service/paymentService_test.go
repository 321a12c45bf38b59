package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

func newPaymentFixture() (*fakeTicketRepo, *fakePaymentRepo, *fakePublisher, PaymentService) {
	ticketRepo := newFakeTicketRepo()
	paymentRepo := newFakePaymentRepo(ticketRepo)
	publisher := &fakePublisher{}
	svc := NewPaymentService(paymentRepo, ticketRepo, publisher, testLogger())
	return ticketRepo, paymentRepo, publisher, svc
}

func TestProcessPayment(t *testing.T) {
	ticketRepo, _, publisher, svc := newPaymentFixture()

	ticketRepo.addTicket(&entity.Ticket{
		EventID:     1,
		UserID:      1,
		Quantity:    2,
		TotalAmount: 100.0,
		Status:      entity.TicketStatusPending,
	})

	payment, err := svc.ProcessPayment(context.Background(), &ProcessPaymentRequest{
		TicketID: 1,
		Amount:   100.0,
		Method:   "card",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, 100.0, payment.Amount)
	assert.Regexp(t, regexp.MustCompile(`^TXN[0-9A-F]{8}$`), payment.TransactionID)

	ticket, _ := ticketRepo.GetByID(context.Background(), 1)
	assert.Equal(t, entity.TicketStatusPaid, ticket.Status)

	tasks := publisher.published()
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskTypeSendNotification, tasks[0].Type)
}

func TestProcessPaymentAmountTolerance(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantErr bool
	}{
		{"exact", 100.00, false},
		{"one cent over", 100.01, false},
		{"one cent under", 99.99, false},
		{"two cents over", 100.02, true},
		{"half price", 50.00, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticketRepo, _, _, svc := newPaymentFixture()
			ticketRepo.addTicket(&entity.Ticket{
				TotalAmount: 100.0,
				Status:      entity.TicketStatusPending,
			})

			_, err := svc.ProcessPayment(context.Background(), &ProcessPaymentRequest{
				TicketID: 1,
				Amount:   tt.amount,
				Method:   "card",
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrAmountMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessPaymentAlreadyPaid(t *testing.T) {
	ticketRepo, _, _, svc := newPaymentFixture()
	ticketRepo.addTicket(&entity.Ticket{
		TotalAmount: 100.0,
		Status:      entity.TicketStatusPaid,
	})

	_, err := svc.ProcessPayment(context.Background(), &ProcessPaymentRequest{
		TicketID: 1,
		Amount:   100.0,
		Method:   "card",
	})
	assert.ErrorIs(t, err, entity.ErrAlreadyPaid)
}

func TestProcessPaymentCancelledTicket(t *testing.T) {
	ticketRepo, _, _, svc := newPaymentFixture()
	ticketRepo.addTicket(&entity.Ticket{
		TotalAmount: 100.0,
		Status:      entity.TicketStatusCancelled,
	})

	_, err := svc.ProcessPayment(context.Background(), &ProcessPaymentRequest{
		TicketID: 1,
		Amount:   100.0,
		Method:   "card",
	})
	assert.ErrorIs(t, err, entity.ErrTicketNotPayable)
}

func TestRefundPayment(t *testing.T) {
	ticketRepo, paymentRepo, _, svc := newPaymentFixture()

	ticketRepo.addTicket(&entity.Ticket{
		EventID:     1,
		TotalAmount: 100.0,
		Status:      entity.TicketStatusPending,
	})

	_, err := svc.ProcessPayment(context.Background(), &ProcessPaymentRequest{
		TicketID: 1,
		Amount:   100.0,
		Method:   "card",
	})
	require.NoError(t, err)

	refunded, err := svc.RefundPayment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, refunded.Status)

	ticket, _ := ticketRepo.GetByID(context.Background(), 1)
	assert.Equal(t, entity.TicketStatusRefunded, ticket.Status)

	stored, err := paymentRepo.GetByTicketID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, stored.Status)
}

func TestRefundPaymentKeepsSeats(t *testing.T) {
	eventRepo := newFakeEventRepo()
	ticketRepo := newFakeTicketRepo()
	paymentRepo := newFakePaymentRepo(ticketRepo)
	svc := NewPaymentService(paymentRepo, ticketRepo, nil, testLogger())

	eventRepo.addEvent(&entity.Event{
		TotalSeats:     10,
		AvailableSeats: 8,
		Status:         entity.EventStatusUpcoming,
	})
	ticketRepo.addTicket(&entity.Ticket{
		EventID:     1,
		Quantity:    2,
		TotalAmount: 100.0,
		Status:      entity.TicketStatusPaid,
	})
	paymentRepo.payments[1] = &entity.Payment{
		ID:       1,
		TicketID: 1,
		Amount:   100.0,
		Status:   entity.PaymentStatusSuccess,
	}

	_, err := svc.RefundPayment(context.Background(), 1)
	require.NoError(t, err)

	// The refund moves money back, not seats
	event, _ := eventRepo.GetByID(context.Background(), 1)
	assert.Equal(t, 8, event.AvailableSeats)
}

func TestRefundPaymentWithoutSuccessfulPayment(t *testing.T) {
	ticketRepo, _, _, svc := newPaymentFixture()
	ticketRepo.addTicket(&entity.Ticket{
		TotalAmount: 100.0,
		Status:      entity.TicketStatusPending,
	})

	_, err := svc.RefundPayment(context.Background(), 1)
	assert.ErrorIs(t, err, entity.ErrNotRefundable)
}

func TestRefundPaymentTwice(t *testing.T) {
	ticketRepo, _, _, svc := newPaymentFixture()

	ticketRepo.addTicket(&entity.Ticket{
		TotalAmount: 100.0,
		Status:      entity.TicketStatusPending,
	})

	_, err := svc.ProcessPayment(context.Background(), &ProcessPaymentRequest{
		TicketID: 1,
		Amount:   100.0,
		Method:   "card",
	})
	require.NoError(t, err)

	_, err = svc.RefundPayment(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.RefundPayment(context.Background(), 1)
	assert.ErrorIs(t, err, entity.ErrNotRefundable)
}

func TestGenerateTransactionID(t *testing.T) {
	seen := map[string]bool{}
	pattern := regexp.MustCompile(`^TXN[0-9A-F]{8}$`)

	for i := 0; i < 100; i++ {
		id, err := generateTransactionID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}

	// Collisions in 100 draws from a 32-bit space are implausible
	assert.Greater(t, len(seen), 95)
}
