package transport

import (
	"errors"
	"net/http"

	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for successful API responses
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is the envelope for failed API responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// statusFromError maps domain errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrTicketNotFound),
		errors.Is(err, entity.ErrPaymentNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrTicketTypeNotFound):
		return http.StatusNotFound

	case errors.Is(err, entity.ErrNotEnoughSeats),
		errors.Is(err, entity.ErrTypeSoldOut),
		errors.Is(err, entity.ErrCapacityOverflow),
		errors.Is(err, entity.ErrAlreadyPaid),
		errors.Is(err, entity.ErrAlreadyCancelled),
		errors.Is(err, entity.ErrNotCancellable),
		errors.Is(err, entity.ErrNotRefundable),
		errors.Is(err, entity.ErrTicketNotPayable),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrEventCancelled),
		errors.Is(err, entity.ErrUserAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidTotalSeats),
		errors.Is(err, entity.ErrEventDatePast),
		errors.Is(err, entity.ErrAmountMismatch),
		errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, entity.ErrInvalidCredentials),
		errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
