package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

// CreateEventRequest represents the data needed to create an event
type CreateEventRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=255"`
	Description string            `json:"description" binding:"max=1000"`
	Venue       string            `json:"venue" binding:"required,max=255"`
	Date        entity.CustomTime `json:"date" binding:"required"`
	TotalSeats  int               `json:"total_seats" binding:"required,min=1,max=10000"`
	TicketPrice float64           `json:"ticket_price" binding:"min=0"`
	CreatedBy   int64             `json:"created_by" binding:"required"`
}

// UpdateEventRequest represents the data needed to update an event.
// Total seats are fixed at creation; the ledger depends on them.
type UpdateEventRequest struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Venue       *string            `json:"venue,omitempty"`
	Date        *entity.CustomTime `json:"date,omitempty"`
	TicketPrice *float64           `json:"ticket_price,omitempty"`
}

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	queue     TaskPublisher
	log       *logrus.Logger
}

// NewEventService creates a new instance of EventService
func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
	log *logrus.Logger,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		queue:     queue,
		log:       log,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error) {
	if req.Date.Before(time.Now()) {
		return nil, entity.ErrEventDatePast
	}
	if req.TotalSeats <= 0 {
		return nil, entity.ErrInvalidTotalSeats
	}

	creator, err := s.userRepo.GetByID(ctx, req.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if creator.Role != entity.RoleOrganizer {
		return nil, entity.ErrForbidden
	}

	event := &entity.Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Date:        req.Date.Time,
		TotalSeats:  req.TotalSeats,
		TicketPrice: req.TicketPrice,
		Status:      entity.EventStatusUpcoming,
		CreatedBy:   req.CreatedBy,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"name":        event.Name,
		"total_seats": event.TotalSeats,
	}).Info("event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req *UpdateEventRequest) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event.Status == entity.EventStatusCancelled {
		return nil, entity.ErrEventCancelled
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Date != nil {
		if req.Date.Before(time.Now()) {
			return nil, entity.ErrEventDatePast
		}
		event.Date = req.Date.Time
	}
	if req.TicketPrice != nil {
		event.TicketPrice = *req.TicketPrice
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// CancelEvent marks an event as cancelled. Only its organizer may cancel it.
// Existing tickets are left to their own cancel/refund flows.
func (s *eventService) CancelEvent(ctx context.Context, id int64, organizerID int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	if event.CreatedBy != organizerID {
		return entity.ErrForbidden
	}
	if event.Status == entity.EventStatusCancelled {
		return entity.ErrEventCancelled
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, entity.EventStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"event_id":     id,
		"organizer_id": organizerID,
	}).Info("event cancelled")

	if s.queue != nil {
		task := &Task{
			ID:   fmt.Sprintf("notification_event_cancelled_%d_%d", id, time.Now().Unix()),
			Type: TaskTypeSendNotification,
			Data: map[string]interface{}{
				"notification_type": "event_cancelled",
				"event_id":          id,
			},
			ExecuteAt:  time.Now(),
			MaxRetries: 3,
		}
		if err := s.queue.Publish(ctx, task); err != nil {
			s.log.WithError(err).Warn("failed to publish event cancellation notification")
		}
	}

	return nil
}

func (s *eventService) GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetOrganizerEvents(ctx context.Context, organizerID int64) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizer events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetEventStats(ctx context.Context, eventID int64) (*entity.EventStats, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	stats, err := s.eventRepo.GetStats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}
	return stats, nil
}
