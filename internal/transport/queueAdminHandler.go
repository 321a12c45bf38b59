package transport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Videeksha22/event-ticket-booking-system/pkg/queue"

	"github.com/gin-gonic/gin"
)

// QueueInspector exposes the queue state operations used by the admin API
type QueueInspector interface {
	GetQueueStats(ctx context.Context) (*queue.QueueStats, error)
	Purge(ctx context.Context) error
}

// DLQInspector exposes the dead letter queue operations used by the admin API
type DLQInspector interface {
	GetFailedTasks(ctx context.Context, limit int) ([]*queue.FailedTask, error)
	RequeueFailedTask(ctx context.Context, taskID string) error
	DeleteFailedTask(ctx context.Context, taskID string) error
	GetDLQStats(ctx context.Context) (*queue.DLQStats, error)
	PurgeDLQ(ctx context.Context) (int64, error)
}

// QueueAdminHandler serves queue and DLQ inspection for operators.
// Both inspectors are nil when the service runs without Redis.
type QueueAdminHandler struct {
	queue QueueInspector
	dlq   DLQInspector
}

func NewQueueAdminHandler(queueInspector QueueInspector, dlqInspector DLQInspector) *QueueAdminHandler {
	return &QueueAdminHandler{queue: queueInspector, dlq: dlqInspector}
}

func (h *QueueAdminHandler) queueDisabled(c *gin.Context) bool {
	if h.queue == nil || h.dlq == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Success: false,
			Error:   "Task queue is not configured",
		})
		return true
	}
	return false
}

func (h *QueueAdminHandler) GetQueueStats(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	stats, err := h.queue.GetQueueStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Queue stats retrieved successfully",
		Data:    stats,
	})
}

func (h *QueueAdminHandler) PurgeQueues(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	if err := h.queue.Purge(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "All queues purged",
	})
}

func (h *QueueAdminHandler) GetFailedTasks(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	tasks, err := h.dlq.GetFailedTasks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Failed tasks retrieved successfully",
		Data:    tasks,
		Meta:    gin.H{"count": len(tasks)},
	})
}

func (h *QueueAdminHandler) GetDLQStats(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	stats, err := h.dlq.GetDLQStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "DLQ stats retrieved successfully",
		Data:    stats,
	})
}

func (h *QueueAdminHandler) RequeueFailedTask(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	taskID := c.Param("task_id")
	if taskID == "" {
		respondBadRequest(c, "Invalid task ID")
		return
	}

	if err := h.dlq.RequeueFailedTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Task requeued successfully",
	})
}

func (h *QueueAdminHandler) DeleteFailedTask(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	taskID := c.Param("task_id")
	if taskID == "" {
		respondBadRequest(c, "Invalid task ID")
		return
	}

	if err := h.dlq.DeleteFailedTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

func (h *QueueAdminHandler) PurgeDLQ(c *gin.Context) {
	if h.queueDisabled(c) {
		return
	}

	removed, err := h.dlq.PurgeDLQ(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "DLQ purged successfully",
		Data:    gin.H{"removed": removed},
	})
}
