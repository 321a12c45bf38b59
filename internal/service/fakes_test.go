package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

// In-memory repositories used by the service tests. All of them guard their
// state with a mutex so concurrency tests observe the same atomicity the
// SQL implementations provide.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[int64]*entity.Event
	nextID int64

	releaseErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*entity.Event{}, nextID: 1}
}

func (r *fakeEventRepo) addEvent(event *entity.Event) *entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == 0 {
		event.ID = r.nextID
		r.nextID++
	}
	r.events[event.ID] = event
	return event
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.addEvent(event)
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) GetAll(ctx context.Context) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]*entity.Event, 0, len(r.events))
	for _, event := range r.events {
		copied := *event
		events = append(events, &copied)
	}
	return events, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return entity.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (r *fakeEventRepo) GetUpcoming(ctx context.Context, limit int) ([]*entity.Event, error) {
	events, _ := r.GetAll(ctx)
	var upcoming []*entity.Event
	for _, event := range events {
		if event.Status == entity.EventStatusUpcoming {
			upcoming = append(upcoming, event)
		}
		if len(upcoming) == limit {
			break
		}
	}
	return upcoming, nil
}

func (r *fakeEventRepo) GetByOrganizer(ctx context.Context, organizerID int64) ([]*entity.Event, error) {
	events, _ := r.GetAll(ctx)
	var owned []*entity.Event
	for _, event := range events {
		if event.CreatedBy == organizerID {
			owned = append(owned, event)
		}
	}
	return owned, nil
}

func (r *fakeEventRepo) GetByDateBefore(ctx context.Context, before time.Time, statuses []entity.EventStatus) ([]*entity.Event, error) {
	events, _ := r.GetAll(ctx)
	var matched []*entity.Event
	for _, event := range events {
		if !event.Date.Before(before) {
			continue
		}
		for _, status := range statuses {
			if event.Status == status {
				matched = append(matched, event)
				break
			}
		}
	}
	return matched, nil
}

func (r *fakeEventRepo) ReserveSeats(ctx context.Context, eventID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return entity.ErrEventNotFound
	}
	if event.AvailableSeats < quantity {
		return entity.ErrNotEnoughSeats
	}
	event.AvailableSeats -= quantity
	return nil
}

func (r *fakeEventRepo) ReleaseSeats(ctx context.Context, eventID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.releaseErr != nil {
		return r.releaseErr
	}
	event, ok := r.events[eventID]
	if !ok {
		return entity.ErrEventNotFound
	}
	if event.AvailableSeats+quantity > event.TotalSeats {
		return entity.ErrCapacityOverflow
	}
	event.AvailableSeats += quantity
	return nil
}

func (r *fakeEventRepo) GetStats(ctx context.Context, eventID int64) (*entity.EventStats, error) {
	if _, err := r.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return &entity.EventStats{EventID: eventID}, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[int64]*entity.Ticket
	nextID  int64

	createErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*entity.Ticket{}, nextID: 1}
}

func (r *fakeTicketRepo) addTicket(ticket *entity.Ticket) *entity.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == 0 {
		ticket.ID = r.nextID
		r.nextID++
	}
	r.tickets[ticket.ID] = ticket
	return ticket
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	r.mu.Lock()
	if r.createErr != nil {
		r.mu.Unlock()
		return r.createErr
	}
	r.mu.Unlock()

	ticket.BookedAt = time.Now()
	ticket.UpdatedAt = ticket.BookedAt
	r.addTicket(ticket)
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, entity.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByUserID(ctx context.Context, userID int64) ([]*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tickets []*entity.Ticket
	for _, ticket := range r.tickets {
		if ticket.UserID == userID {
			copied := *ticket
			tickets = append(tickets, &copied)
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) GetByEventID(ctx context.Context, eventID int64) ([]*entity.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tickets []*entity.Ticket
	for _, ticket := range r.tickets {
		if ticket.EventID == eventID {
			copied := *ticket
			tickets = append(tickets, &copied)
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return entity.ErrTicketNotFound
	}
	if ticket.Status != from {
		return entity.ErrInvalidTransition
	}
	ticket.Status = to
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) SumActiveQuantity(ctx context.Context, eventID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, ticket := range r.tickets {
		if ticket.EventID == eventID && ticket.Status != entity.TicketStatusCancelled {
			sum += ticket.Quantity
		}
	}
	return sum, nil
}

type fakePaymentRepo struct {
	mu         sync.Mutex
	payments   map[int64]*entity.Payment
	nextID     int64
	ticketRepo *fakeTicketRepo
}

func newFakePaymentRepo(ticketRepo *fakeTicketRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[int64]*entity.Payment{}, nextID: 1, ticketRepo: ticketRepo}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment, ticketFrom, ticketTo entity.TicketStatus) error {
	if err := r.ticketRepo.UpdateStatusFrom(ctx, payment.TicketID, ticketFrom, ticketTo); err != nil {
		if errors.Is(err, entity.ErrInvalidTransition) {
			return entity.ErrTicketNotPayable
		}
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	payment.ID = r.nextID
	r.nextID++
	payment.PaidAt = time.Now()
	payment.UpdatedAt = payment.PaidAt
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.TicketID == ticketID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, entity.ErrPaymentNotFound
}

func (r *fakePaymentRepo) GetSuccessfulByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.TicketID == ticketID && payment.Status == entity.PaymentStatusSuccess {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, entity.ErrPaymentNotFound
}

func (r *fakePaymentRepo) MarkRefunded(ctx context.Context, paymentID, ticketID int64) error {
	r.mu.Lock()
	payment, ok := r.payments[paymentID]
	if !ok || payment.Status != entity.PaymentStatusSuccess {
		r.mu.Unlock()
		return entity.ErrNotRefundable
	}
	payment.Status = entity.PaymentStatusRefunded
	r.mu.Unlock()

	return r.ticketRepo.UpdateStatusFrom(ctx, ticketID, entity.TicketStatusPaid, entity.TicketStatusRefunded)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (r *fakeUserRepo) addUser(user *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			r.mu.Unlock()
			return entity.ErrUserAlreadyExists
		}
	}
	r.mu.Unlock()
	r.addUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateTelegramID(ctx context.Context, userID int64, telegramID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}
	user.TelegramID = telegramID
	return nil
}

type fakeTicketTypeRepo struct {
	mu     sync.Mutex
	types  map[int64]*entity.TicketType
	nextID int64
}

func newFakeTicketTypeRepo() *fakeTicketTypeRepo {
	return &fakeTicketTypeRepo{types: map[int64]*entity.TicketType{}, nextID: 1}
}

func (r *fakeTicketTypeRepo) Create(ctx context.Context, tt *entity.TicketType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt.ID = r.nextID
	r.nextID++
	copied := *tt
	r.types[tt.ID] = &copied
	return nil
}

func (r *fakeTicketTypeRepo) GetByID(ctx context.Context, id int64) (*entity.TicketType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return nil, entity.ErrTicketTypeNotFound
	}
	copied := *tt
	return &copied, nil
}

func (r *fakeTicketTypeRepo) GetByEventID(ctx context.Context, eventID int64) ([]*entity.TicketType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []*entity.TicketType
	for _, tt := range r.types {
		if tt.EventID == eventID {
			copied := *tt
			types = append(types, &copied)
		}
	}
	return types, nil
}

func (r *fakeTicketTypeRepo) AllocateQuantity(ctx context.Context, id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return entity.ErrTicketTypeNotFound
	}
	if tt.Quantity < quantity {
		return entity.ErrTypeSoldOut
	}
	tt.Quantity -= quantity
	return nil
}

func (r *fakeTicketTypeRepo) ReleaseQuantity(ctx context.Context, id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return entity.ErrTicketTypeNotFound
	}
	tt.Quantity += quantity
	return nil
}

// fakePublisher records the tasks services publish
type fakePublisher struct {
	mu    sync.Mutex
	tasks []*Task
}

func (p *fakePublisher) Publish(ctx context.Context, task *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *fakePublisher) published() []*Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Task(nil), p.tasks...)
}
