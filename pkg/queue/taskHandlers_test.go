package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

type fakeBookingService struct {
	tickets      map[int64]*entity.Ticket
	eventTickets map[int64][]*entity.Ticket
}

func (f *fakeBookingService) GetTicket(ctx context.Context, id int64) (*entity.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, entity.ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakeBookingService) GetEventTickets(ctx context.Context, eventID int64) ([]*entity.Ticket, error) {
	return f.eventTickets[eventID], nil
}

type fakeEventService struct {
	events map[int64]*entity.Event
}

func (f *fakeEventService) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	return event, nil
}

type fakeUserService struct {
	users map[int64]*entity.User
}

func (f *fakeUserService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}

type sentMessage struct {
	chatID string
	text   string
}

type fakeBot struct {
	messages []sentMessage
}

func (f *fakeBot) SendMessage(chatID, text string) error {
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func newHandlerFixture() (*fakeBookingService, *fakeEventService, *fakeUserService, *fakeBot, *TaskHandler) {
	booking := &fakeBookingService{
		tickets:      make(map[int64]*entity.Ticket),
		eventTickets: make(map[int64][]*entity.Ticket),
	}
	events := &fakeEventService{events: make(map[int64]*entity.Event)}
	users := &fakeUserService{users: make(map[int64]*entity.User)}
	bot := &fakeBot{}
	handler := NewTaskHandler(booking, events, users, bot, "admin-chat")
	return booking, events, users, bot, handler
}

func TestHandleTaskUnknownType(t *testing.T) {
	_, _, _, _, handler := newHandlerFixture()

	err := handler.HandleTask(&Task{ID: "task_1", Type: "mystery"})
	assert.Error(t, err)
}

func TestHandleTicketBookedNotification(t *testing.T) {
	booking, events, users, bot, handler := newHandlerFixture()

	events.events[7] = &entity.Event{ID: 7, Name: "Go Conference", Date: time.Now().Add(48 * time.Hour)}
	users.users[3] = &entity.User{ID: 3, TelegramID: "tg-3"}
	booking.tickets[11] = &entity.Ticket{ID: 11, EventID: 7, UserID: 3, Quantity: 2, Status: entity.TicketStatusPending}

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": "ticket_booked",
			"ticket_id":         int64(11),
		},
	})
	require.NoError(t, err)

	require.Len(t, bot.messages, 1)
	assert.Equal(t, "tg-3", bot.messages[0].chatID)
	assert.Contains(t, bot.messages[0].text, "Go Conference")
}

func TestHandleNotificationSkipsUserWithoutTelegram(t *testing.T) {
	booking, events, users, bot, handler := newHandlerFixture()

	events.events[7] = &entity.Event{ID: 7, Name: "Go Conference", Date: time.Now().Add(48 * time.Hour)}
	users.users[3] = &entity.User{ID: 3}
	booking.tickets[11] = &entity.Ticket{ID: 11, EventID: 7, UserID: 3, Quantity: 1, Status: entity.TicketStatusPending}

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": "ticket_cancelled",
			"ticket_id":         int64(11),
		},
	})
	require.NoError(t, err)
	assert.Empty(t, bot.messages)
}

func TestHandleNotificationMissingTicket(t *testing.T) {
	_, _, _, _, handler := newHandlerFixture()

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": "ticket_booked",
			"ticket_id":         int64(404),
		},
	})
	assert.Error(t, err)
}

func TestHandlePaymentNotificationIncludesTransaction(t *testing.T) {
	booking, events, users, bot, handler := newHandlerFixture()

	events.events[7] = &entity.Event{ID: 7, Name: "Go Conference", Date: time.Now().Add(48 * time.Hour)}
	users.users[3] = &entity.User{ID: 3, TelegramID: "tg-3"}
	booking.tickets[11] = &entity.Ticket{ID: 11, EventID: 7, UserID: 3, Quantity: 2, Status: entity.TicketStatusPaid}

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": "payment_received",
			"ticket_id":         int64(11),
			"amount":            90.0,
			"transaction_id":    "TXN0A1B2C3D",
		},
	})
	require.NoError(t, err)

	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0].text, "TXN0A1B2C3D")
	assert.Contains(t, bot.messages[0].text, "90.00")
}

func TestHandleEventCancelledNotifiesActiveHolders(t *testing.T) {
	booking, events, users, bot, handler := newHandlerFixture()

	events.events[7] = &entity.Event{ID: 7, Name: "Go Conference", Date: time.Now().Add(48 * time.Hour)}
	users.users[1] = &entity.User{ID: 1, TelegramID: "tg-1"}
	users.users[2] = &entity.User{ID: 2, TelegramID: "tg-2"}
	users.users[3] = &entity.User{ID: 3, TelegramID: "tg-3"}
	booking.eventTickets[7] = []*entity.Ticket{
		{ID: 11, EventID: 7, UserID: 1, Status: entity.TicketStatusPending},
		{ID: 12, EventID: 7, UserID: 2, Status: entity.TicketStatusCancelled},
		{ID: 13, EventID: 7, UserID: 3, Status: entity.TicketStatusRefunded},
	}

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"notification_type": "event_cancelled",
			"event_id":          int64(7),
		},
	})
	require.NoError(t, err)

	// Holders of cancelled or refunded tickets are not notified
	require.Len(t, bot.messages, 1)
	assert.Equal(t, "tg-1", bot.messages[0].chatID)
	assert.Contains(t, bot.messages[0].text, "Event cancelled")
}

func TestHandleReconcileAlert(t *testing.T) {
	_, _, _, bot, handler := newHandlerFixture()

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeReconcileAlert,
		Data: map[string]interface{}{
			"event_id": int64(7),
			"expected": 100,
			"actual":   98,
			"drift":    -2,
		},
	})
	require.NoError(t, err)

	require.Len(t, bot.messages, 1)
	assert.Equal(t, "admin-chat", bot.messages[0].chatID)
	assert.Contains(t, bot.messages[0].text, "discrepancy")
}

func TestHandleReconcileAlertWithoutAdminChat(t *testing.T) {
	booking := &fakeBookingService{tickets: make(map[int64]*entity.Ticket)}
	events := &fakeEventService{events: make(map[int64]*entity.Event)}
	users := &fakeUserService{users: make(map[int64]*entity.User)}
	bot := &fakeBot{}
	handler := NewTaskHandler(booking, events, users, bot, "")

	err := handler.HandleTask(&Task{
		ID:   "task_1",
		Type: TaskTypeReconcileAlert,
		Data: map[string]interface{}{
			"event_id": int64(7),
			"drift":    1,
		},
	})
	require.NoError(t, err)
	assert.Empty(t, bot.messages)
}
