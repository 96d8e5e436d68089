package add_booking_message

import (
	"errors"
	"net/http"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingCaller      = "authentication required"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgEmptyMessage       = "message text must not be empty"
)

// AddMessageRequest HTTP request model
type AddMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/messages - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingCaller)
		return
	}

	var req AddMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+err.Error())
		return
	}

	booking, err := h.service.AddMessage(r.Context(), bookingID, &models.AddMessageRequest{
		Caller: caller,
		Text:   req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /bookings/{id}/messages - Access denied: booking_id=%s, caller=%s", bookingID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, msgEmptyMessage)

		default:
			h.logger.Error("POST /bookings/{id}/messages - Failed to add message: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/messages - Message added: booking_id=%s, sender=%s", bookingID, caller.ID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
