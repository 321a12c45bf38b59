package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/monitoring"
)

// Discrepancy describes a violated seat conservation invariant for one event
type Discrepancy struct {
	EventID  int64 `json:"event_id"`
	Expected int   `json:"expected"` // total seats
	Actual   int   `json:"actual"`   // available + non-cancelled ticket quantity
	Drift    int   `json:"drift"`    // actual - expected
}

type reconcilerService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	queue      TaskPublisher
	log        *logrus.Logger
}

// NewReconcilerService creates a new ReconcilerService instance
func NewReconcilerService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	queue TaskPublisher,
	log *logrus.Logger,
) ReconcilerService {
	return &reconcilerService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		queue:      queue,
		log:        log,
	}
}

// ReconcileEvent checks one event against the conservation invariant.
// Returns nil when the ledger is consistent.
func (s *reconcilerService) ReconcileEvent(ctx context.Context, eventID int64) (*Discrepancy, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	heldSeats, err := s.ticketRepo.SumActiveQuantity(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ticket quantity: %w", err)
	}

	actual := event.AvailableSeats + heldSeats
	drift := actual - event.TotalSeats

	monitoring.TrackReconcileDrift(strconv.FormatInt(eventID, 10), drift)

	if drift == 0 {
		return nil, nil
	}

	disc := &Discrepancy{
		EventID:  eventID,
		Expected: event.TotalSeats,
		Actual:   actual,
		Drift:    drift,
	}

	s.log.WithFields(logrus.Fields{
		"event_id": eventID,
		"expected": disc.Expected,
		"actual":   disc.Actual,
		"drift":    disc.Drift,
	}).Error("seat inventory discrepancy detected")

	if s.queue != nil {
		s.publishAlert(ctx, disc)
	}

	return disc, nil
}

// ReconcileAll checks every event and returns the discrepancies found
func (s *reconcilerService) ReconcileAll(ctx context.Context) ([]*Discrepancy, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var discrepancies []*Discrepancy
	for _, event := range events {
		disc, err := s.ReconcileEvent(ctx, event.ID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"event_id": event.ID,
				"error":    err,
			}).Warn("failed to reconcile event")
			continue
		}
		if disc != nil {
			discrepancies = append(discrepancies, disc)
		}
	}

	return discrepancies, nil
}

func (s *reconcilerService) publishAlert(ctx context.Context, disc *Discrepancy) {
	task := &Task{
		ID:   fmt.Sprintf("reconcile_alert_%d_%d", disc.EventID, time.Now().Unix()),
		Type: TaskTypeReconcileAlert,
		Data: map[string]interface{}{
			"event_id": disc.EventID,
			"expected": disc.Expected,
			"actual":   disc.Actual,
			"drift":    disc.Drift,
		},
		ExecuteAt:  time.Now(),
		MaxRetries: 3,
	}

	if err := s.queue.Publish(ctx, task); err != nil {
		s.log.WithError(err).Warn("failed to publish reconcile alert")
	}
}
