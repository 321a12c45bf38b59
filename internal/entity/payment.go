package entity

import (
	"math"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// AmountEpsilon is the tolerance for matching a payment amount against the
// ticket's total.
const AmountEpsilon = 0.01

// paymentCascade maps a payment outcome to the ticket status it forces.
// A failed payment deliberately forces nothing: the ticket stays pending
// and may be paid again.
var paymentCascade = map[PaymentStatus]TicketStatus{
	PaymentStatusSuccess:  TicketStatusPaid,
	PaymentStatusRefunded: TicketStatusRefunded,
}

// TicketStatusFor returns the ticket status a payment status forces, if any.
func (s PaymentStatus) TicketStatusFor() (TicketStatus, bool) {
	ts, ok := paymentCascade[s]
	return ts, ok
}

type Payment struct {
	ID            int64         `json:"id" db:"id"`
	TicketID      int64         `json:"ticket_id" db:"ticket_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Method        string        `json:"method" db:"method"`
	Status        PaymentStatus `json:"status" db:"status"`
	TransactionID string        `json:"transaction_id" db:"transaction_id"`
	PaidAt        time.Time     `json:"paid_at" db:"paid_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// AmountMatches reports whether paid is equal to expected within AmountEpsilon.
// The difference is rounded to whole cents first; an exact one-cent gap such
// as 150.01 against 150.00 is inside the tolerance even though the raw
// float64 difference lands slightly above 0.01.
func AmountMatches(expected, paid float64) bool {
	cents := math.Round(math.Abs(expected-paid) * 100)
	return cents <= AmountEpsilon*100
}
