package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

func TestCreateTicketType(t *testing.T) {
	eventRepo := newFakeEventRepo()
	typeRepo := newFakeTicketTypeRepo()
	svc := NewTicketTypeService(typeRepo, eventRepo, testLogger())

	eventRepo.addEvent(&entity.Event{
		TotalSeats:     100,
		AvailableSeats: 100,
		Status:         entity.EventStatusUpcoming,
	})

	tt, err := svc.CreateTicketType(context.Background(), &CreateTicketTypeRequest{
		EventID:  1,
		TypeName: "VIP",
		Price:    120.0,
		Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "VIP", tt.TypeName)
	assert.Equal(t, 10, tt.Quantity)

	_, err = svc.CreateTicketType(context.Background(), &CreateTicketTypeRequest{
		EventID:  42,
		TypeName: "VIP",
		Quantity: 10,
	})
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}

func TestAllocateAndReleaseTicketType(t *testing.T) {
	eventRepo := newFakeEventRepo()
	typeRepo := newFakeTicketTypeRepo()
	svc := NewTicketTypeService(typeRepo, eventRepo, testLogger())

	eventRepo.addEvent(&entity.Event{
		TotalSeats:     100,
		AvailableSeats: 100,
		Status:         entity.EventStatusUpcoming,
	})

	tt, err := svc.CreateTicketType(context.Background(), &CreateTicketTypeRequest{
		EventID:  1,
		TypeName: "Standard",
		Quantity: 5,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AllocateTicketType(context.Background(), tt.ID, 3))

	// Only two left, asking for three exhausts the pool
	err = svc.AllocateTicketType(context.Background(), tt.ID, 3)
	assert.ErrorIs(t, err, entity.ErrTypeSoldOut)

	require.NoError(t, svc.ReleaseTicketType(context.Background(), tt.ID, 3))
	require.NoError(t, svc.AllocateTicketType(context.Background(), tt.ID, 3))

	stored, _ := typeRepo.GetByID(context.Background(), tt.ID)
	assert.Equal(t, 2, stored.Quantity)

	// The type pool never touches the event seat ledger
	event, _ := eventRepo.GetByID(context.Background(), 1)
	assert.Equal(t, 100, event.AvailableSeats)
}
