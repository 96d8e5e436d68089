package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/HouseRent-BookingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingCaller      = "authentication required"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgDatesUnavailable   = "property is already booked for the selected dates"
	msgNotPending         = "only pending bookings can be rescheduled"
	msgInvalidDateRange   = "startDate must be before endDate"
	msgStartInPast        = "startDate must not be in the past"
	msgInvalidRequest     = "invalid reschedule request"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/dates - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingCaller)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+err.Error())
		return
	}

	start, err := handlers.ParseDate("startDate", req.StartDate)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	end, err := handlers.ParseDate("endDate", req.EndDate)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	booking, err := h.useCase.Execute(r.Context(), &rescheduleBooking.Request{
		Caller:    caller,
		BookingID: bookingID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDatesUnavailable):
			handlers.RespondConflict(w, msgDatesUnavailable)

		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/dates - Access denied: booking_id=%s, caller=%s", bookingID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrNotPending):
			handlers.RespondBadRequest(w, msgNotPending)

		case errors.Is(err, domain.ErrInvalidDateRange):
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, rescheduleBooking.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PATCH /bookings/{id}/dates - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("PATCH /bookings/{id}/dates - Failed to reschedule: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/dates - Booking rescheduled: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
