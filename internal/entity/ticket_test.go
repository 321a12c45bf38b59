package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "A-1"},
		{2, "A-2"},
		{10, "A-10"},
		{11, "B-1"},
		{15, "B-5"},
		{20, "B-10"},
		{21, "C-1"},
		{50, "E-10"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeatLabel(tt.index), "seat index %d", tt.index)
	}
}

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, TicketStatusPending.CanTransition(TicketStatusPaid))
	assert.True(t, TicketStatusPending.CanTransition(TicketStatusCancelled))
	assert.False(t, TicketStatusPending.CanTransition(TicketStatusRefunded))

	assert.True(t, TicketStatusPaid.CanTransition(TicketStatusCancelled))
	assert.True(t, TicketStatusPaid.CanTransition(TicketStatusRefunded))
	assert.False(t, TicketStatusPaid.CanTransition(TicketStatusPending))

	assert.False(t, TicketStatusCancelled.CanTransition(TicketStatusPending))
	assert.False(t, TicketStatusCancelled.CanTransition(TicketStatusPaid))
	assert.False(t, TicketStatusRefunded.CanTransition(TicketStatusPending))
	assert.False(t, TicketStatusRefunded.CanTransition(TicketStatusCancelled))
}

func TestTicketStatusIsTerminal(t *testing.T) {
	assert.False(t, TicketStatusPending.IsTerminal())
	assert.False(t, TicketStatusPaid.IsTerminal())
	assert.True(t, TicketStatusCancelled.IsTerminal())
	assert.True(t, TicketStatusRefunded.IsTerminal())
}

func TestPaymentStatusCascade(t *testing.T) {
	ts, ok := PaymentStatusSuccess.TicketStatusFor()
	assert.True(t, ok)
	assert.Equal(t, TicketStatusPaid, ts)

	ts, ok = PaymentStatusRefunded.TicketStatusFor()
	assert.True(t, ok)
	assert.Equal(t, TicketStatusRefunded, ts)

	// A failed payment forces no ticket transition
	_, ok = PaymentStatusFailed.TicketStatusFor()
	assert.False(t, ok)
}

func TestAmountMatches(t *testing.T) {
	assert.True(t, AmountMatches(100.00, 100.00))
	assert.True(t, AmountMatches(100.00, 100.01))
	assert.True(t, AmountMatches(100.00, 99.99))
	assert.False(t, AmountMatches(100.00, 100.02))
	assert.False(t, AmountMatches(100.00, 99.98))
	assert.False(t, AmountMatches(100.00, 50.00))

	// One cent of difference stays inside the tolerance even where the
	// raw float64 subtraction lands just above 0.01
	assert.True(t, AmountMatches(150.00, 150.01))
	assert.True(t, AmountMatches(150.01, 150.00))
	assert.True(t, AmountMatches(0.29, 0.30))
	assert.False(t, AmountMatches(150.00, 150.02))
}

func TestEventSoldSeats(t *testing.T) {
	event := &Event{TotalSeats: 100, AvailableSeats: 37}
	assert.Equal(t, 63, event.SoldSeats())
}
