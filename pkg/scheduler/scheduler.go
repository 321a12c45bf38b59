package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

// eventFinishedAfter is how long past its start an event counts as completed
const eventFinishedAfter = 24 * time.Hour

// Scheduler rolls event statuses forward as their dates pass:
// upcoming events that have started become ongoing, started events
// older than a day become completed. Cancelled events never move.
type Scheduler struct {
	eventRepo repository.EventRepository
	interval  time.Duration
	log       *logrus.Logger
}

func NewScheduler(eventRepo repository.EventRepository, interval time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		eventRepo: eventRepo,
		interval:  interval,
		log:       log,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("event status scheduler started")

	for {
		select {
		case <-ticker.C:
			s.rollStatuses(ctx)
		case <-ctx.Done():
			s.log.Info("event status scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) rollStatuses(ctx context.Context) {
	now := time.Now()

	// Started events older than a day are over
	finished, err := s.eventRepo.GetByDateBefore(ctx, now.Add(-eventFinishedAfter),
		[]entity.EventStatus{entity.EventStatusUpcoming, entity.EventStatusOngoing})
	if err != nil {
		s.log.WithError(err).Error("failed to load finished events")
		return
	}
	s.applyStatus(ctx, finished, entity.EventStatusCompleted)

	// Upcoming events whose date has passed are running
	started, err := s.eventRepo.GetByDateBefore(ctx, now,
		[]entity.EventStatus{entity.EventStatusUpcoming})
	if err != nil {
		s.log.WithError(err).Error("failed to load started events")
		return
	}
	s.applyStatus(ctx, started, entity.EventStatusOngoing)
}

func (s *Scheduler) applyStatus(ctx context.Context, events []*entity.Event, status entity.EventStatus) {
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.eventRepo.UpdateStatus(ctx, event.ID, status); err != nil {
			s.log.WithFields(logrus.Fields{
				"event_id": event.ID,
				"status":   status,
				"error":    err,
			}).Error("failed to roll event status")
			continue
		}

		s.log.WithFields(logrus.Fields{
			"event_id": event.ID,
			"status":   status,
		}).Debug("event status rolled")
	}
}
