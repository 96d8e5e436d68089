package list_owner_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

const (
	msgMissingCaller = "authentication required"
	msgInvalidParams = "invalid query parameters"
	msgForbidden     = "access denied"
)

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

// Handle GET /api/v1/owners/{ownerId}/bookings
// Query params: propertyId, status, limit, offset (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["ownerId"]

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingCaller)
		return
	}

	limit, err := handlers.QueryUint(r, "limit")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	offset, err := handlers.QueryUint(r, "offset")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	page, err := h.service.ListOwnerBookings(r.Context(), &models.ListOwnerBookingsRequest{
		Caller:     caller,
		OwnerID:    ownerID,
		PropertyID: handlers.QueryString(r, "propertyId"),
		Status:     handlers.QueryString(r, "status"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /owners/{id}/bookings - Access denied: owner_id=%s, caller=%s", ownerID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /owners/{id}/bookings - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /owners/{id}/bookings - Failed to list bookings: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /owners/{id}/bookings - Bookings retrieved successfully: owner_id=%s, count=%d, total=%d",
		ownerID, len(page.Bookings), page.Total)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainPage(page))
}
