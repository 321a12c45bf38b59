package transport

import (
	"net/http"
	"strconv"

	"github.com/Videeksha22/event-ticket-booking-system/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	bookingService service.BookingService
}

func NewTicketHandler(bookingService service.BookingService) *TicketHandler {
	return &TicketHandler{bookingService: bookingService}
}

func (h *TicketHandler) BookTickets(c *gin.Context) {
	var req service.BookTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ticket, err := h.bookingService.BookTickets(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Tickets booked successfully",
		Data:    ticket,
	})
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.bookingService.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Ticket retrieved successfully",
		Data:    ticket,
	})
}

func (h *TicketHandler) CancelTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid ticket ID")
		return
	}

	if err := h.bookingService.CancelTicket(c.Request.Context(), ticketID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Ticket cancelled successfully",
		Meta: map[string]interface{}{
			"ticket_id": ticketID,
		},
	})
}

func (h *TicketHandler) GetUserTickets(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user ID")
		return
	}

	tickets, err := h.bookingService.GetUserTickets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Tickets retrieved successfully",
		Data:    tickets,
		Meta: map[string]interface{}{
			"user_id": userID,
			"total":   len(tickets),
		},
	})
}

func (h *TicketHandler) GetEventTickets(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid event ID")
		return
	}

	tickets, err := h.bookingService.GetEventTickets(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event tickets retrieved successfully",
		Data:    tickets,
		Meta: map[string]interface{}{
			"event_id": eventID,
			"total":    len(tickets),
		},
	})
}
