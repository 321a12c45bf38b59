package transport

import (
	"net/http"
	"strconv"

	"github.com/Videeksha22/event-ticket-booking-system/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid ticket ID")
		return
	}

	var req service.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.TicketID = ticketID

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Payment processed successfully",
		Data:    payment,
	})
}

func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid ticket ID")
		return
	}

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Payment refunded successfully",
		Data:    payment,
	})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid ticket ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Payment retrieved successfully",
		Data:    payment,
	})
}
