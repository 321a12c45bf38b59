package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

func newReconcilerFixture() (*fakeEventRepo, *fakeTicketRepo, *fakePublisher, ReconcilerService) {
	eventRepo := newFakeEventRepo()
	ticketRepo := newFakeTicketRepo()
	publisher := &fakePublisher{}
	svc := NewReconcilerService(eventRepo, ticketRepo, publisher, testLogger())
	return eventRepo, ticketRepo, publisher, svc
}

func TestReconcileEventConsistent(t *testing.T) {
	eventRepo, ticketRepo, publisher, svc := newReconcilerFixture()

	eventRepo.addEvent(&entity.Event{
		TotalSeats:     100,
		AvailableSeats: 90,
		Status:         entity.EventStatusUpcoming,
	})
	ticketRepo.addTicket(&entity.Ticket{EventID: 1, Quantity: 6, Status: entity.TicketStatusPaid})
	ticketRepo.addTicket(&entity.Ticket{EventID: 1, Quantity: 4, Status: entity.TicketStatusPending})

	disc, err := svc.ReconcileEvent(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, disc)
	assert.Empty(t, publisher.published())
}

func TestReconcileEventIgnoresCancelledTickets(t *testing.T) {
	eventRepo, ticketRepo, _, svc := newReconcilerFixture()

	// Cancelled tickets gave their seats back, so they do not count
	eventRepo.addEvent(&entity.Event{
		TotalSeats:     50,
		AvailableSeats: 45,
		Status:         entity.EventStatusUpcoming,
	})
	ticketRepo.addTicket(&entity.Ticket{EventID: 1, Quantity: 5, Status: entity.TicketStatusPaid})
	ticketRepo.addTicket(&entity.Ticket{EventID: 1, Quantity: 20, Status: entity.TicketStatusCancelled})

	disc, err := svc.ReconcileEvent(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, disc)
}

func TestReconcileEventDetectsDrift(t *testing.T) {
	eventRepo, ticketRepo, publisher, svc := newReconcilerFixture()

	eventRepo.addEvent(&entity.Event{
		TotalSeats:     100,
		AvailableSeats: 95,
		Status:         entity.EventStatusUpcoming,
	})
	ticketRepo.addTicket(&entity.Ticket{EventID: 1, Quantity: 10, Status: entity.TicketStatusPaid})

	disc, err := svc.ReconcileEvent(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, disc)

	assert.Equal(t, int64(1), disc.EventID)
	assert.Equal(t, 100, disc.Expected)
	assert.Equal(t, 105, disc.Actual)
	assert.Equal(t, 5, disc.Drift)

	tasks := publisher.published()
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskTypeReconcileAlert, tasks[0].Type)
}

func TestReconcileEventUnknownEvent(t *testing.T) {
	_, _, _, svc := newReconcilerFixture()

	_, err := svc.ReconcileEvent(context.Background(), 42)
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}

func TestReconcileAll(t *testing.T) {
	eventRepo, _, _, svc := newReconcilerFixture()

	// Consistent event
	eventRepo.addEvent(&entity.Event{
		TotalSeats:     10,
		AvailableSeats: 10,
		Status:         entity.EventStatusUpcoming,
	})
	// Drifted event: a seat leaked out of the ledger
	eventRepo.addEvent(&entity.Event{
		TotalSeats:     10,
		AvailableSeats: 9,
		Status:         entity.EventStatusUpcoming,
	})
	discrepancies, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, int64(2), discrepancies[0].EventID)
	assert.Equal(t, -1, discrepancies[0].Drift)
}
