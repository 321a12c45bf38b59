package service

import (
	"context"

	"github.com/Videeksha22/event-ticket-booking-system/pkg/queue"
)

// QueueAdapter adapts queue.Queue to the TaskPublisher interface
type QueueAdapter struct {
	queue queue.Queue
}

// NewQueueAdapter creates a new queue adapter
func NewQueueAdapter(q queue.Queue) *QueueAdapter {
	return &QueueAdapter{queue: q}
}

// Publish converts a service.Task to a queue.Task and publishes it
func (a *QueueAdapter) Publish(ctx context.Context, task *Task) error {
	if a.queue == nil {
		return nil
	}

	queueTask := &queue.Task{
		ID:         task.ID,
		Type:       queue.TaskType(task.Type),
		Data:       task.Data,
		ExecuteAt:  task.ExecuteAt,
		MaxRetries: task.MaxRetries,
		Attempts:   task.Attempts,
	}

	return a.queue.Publish(ctx, queueTask)
}
