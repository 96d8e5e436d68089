package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

const (
	msgInvalidDateRange = "startDate must be before endDate"
	msgInvalidRequest   = "invalid availability request"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/properties/{propertyId}/availability
// Query params: startDate, endDate, excludeBookingId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToUseCaseRequest(r)
	if err != nil {
		h.logger.Warn("GET /properties/{id}/availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDateRange):
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /properties/{id}/availability - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /properties/{id}/availability - Failed to check availability: property_id=%s, error=%v",
				req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /properties/{id}/availability - property_id=%s, available=%t", req.PropertyID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
