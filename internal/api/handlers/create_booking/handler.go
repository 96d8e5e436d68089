package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/HouseRent-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingCaller      = "authentication required"
	msgDatesUnavailable   = "property is already booked for the selected dates"
	msgPropertyNotFound   = "property not found"
	msgForbidden          = "cannot book on behalf of another user"
	msgInvalidDateRange   = "startDate must be before endDate"
	msgStartInPast        = "startDate must not be in the past"
	msgStayTooLong        = "stay is too long"
	msgOwnProperty        = "owners cannot book their own property"
	msgNegativeAmount     = "amounts must not be negative"
	msgInvalidRequest     = "invalid booking request"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingCaller)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDatesUnavailable):
			h.logger.Warn("POST /bookings - Dates unavailable: property_id=%s", req.PropertyID)
			handlers.RespondConflict(w, msgDatesUnavailable)

		case errors.Is(err, createBooking.ErrPropertyNotFound):
			h.logger.Warn("POST /bookings - Property not found: property_id=%s", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /bookings - Access denied: caller=%s, tenant_id=%s", caller.ID, req.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidDateRange):
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, createBooking.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrStayTooLong):
			handlers.RespondBadRequest(w, msgStayTooLong)

		case errors.Is(err, createBooking.ErrOwnProperty):
			handlers.RespondBadRequest(w, msgOwnProperty)

		case errors.Is(err, domain.ErrNegativeAmount):
			handlers.RespondBadRequest(w, msgNegativeAmount)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: property_id=%s, caller=%s, error=%v",
				req.PropertyID, caller.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, property_id=%s, tenant_id=%s",
		booking.ID, booking.PropertyID, booking.TenantID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
