package transport

import (
	"net/http"
	"strconv"

	"github.com/Videeksha22/event-ticket-booking-system/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService      service.EventService
	ticketTypeService service.TicketTypeService
	reconcilerService service.ReconcilerService
}

func NewEventHandler(eventService service.EventService, ticketTypeService service.TicketTypeService, reconcilerService service.ReconcilerService) *EventHandler {
	return &EventHandler{
		eventService:      eventService,
		ticketTypeService: ticketTypeService,
		reconcilerService: reconcilerService,
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Event created successfully",
		Data:    event,
	})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event retrieved successfully",
		Data:    event,
	})
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	if c.Query("upcoming") == "true" {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		events, err := h.eventService.GetUpcomingEvents(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Message: "Upcoming events retrieved successfully",
			Data:    events,
			Meta: map[string]interface{}{
				"total": len(events),
				"limit": limit,
			},
		})
		return
	}

	events, err := h.eventService.GetAllEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Events retrieved successfully",
		Data:    events,
		Meta: map[string]interface{}{
			"total": len(events),
		},
	})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event updated successfully",
		Data:    event,
	})
}

// CancelEventRequest carries the organizer performing the cancellation
type CancelEventRequest struct {
	OrganizerID int64 `json:"organizer_id" binding:"required"`
}

func (h *EventHandler) CancelEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	var req CancelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.eventService.CancelEvent(c.Request.Context(), eventID, req.OrganizerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event cancelled successfully",
		Meta: map[string]interface{}{
			"event_id": eventID,
		},
	})
}

func (h *EventHandler) GetOrganizerEvents(c *gin.Context) {
	organizerID, err := strconv.ParseInt(c.Param("organizer_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid organizer ID")
		return
	}

	events, err := h.eventService.GetOrganizerEvents(c.Request.Context(), organizerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Organizer events retrieved successfully",
		Data:    events,
		Meta: map[string]interface{}{
			"organizer_id": organizerID,
			"total":        len(events),
		},
	})
}

func (h *EventHandler) GetEventStats(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	stats, err := h.eventService.GetEventStats(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event stats retrieved successfully",
		Data:    stats,
	})
}

// ReconcileEvent runs the inventory check for one event on demand
func (h *EventHandler) ReconcileEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	discrepancy, err := h.reconcilerService.ReconcileEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	if discrepancy == nil {
		c.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Message: "Event inventory is consistent",
			Meta: map[string]interface{}{
				"event_id": eventID,
			},
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event inventory discrepancy detected",
		Data:    discrepancy,
	})
}

func (h *EventHandler) CreateTicketType(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	var req service.CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.EventID = eventID

	ticketType, err := h.ticketTypeService.CreateTicketType(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Ticket type created successfully",
		Data:    ticketType,
	})
}

func (h *EventHandler) GetTicketTypes(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	ticketTypes, err := h.ticketTypeService.GetEventTicketTypes(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Ticket types retrieved successfully",
		Data:    ticketTypes,
		Meta: map[string]interface{}{
			"event_id": eventID,
			"total":    len(ticketTypes),
		},
	})
}
