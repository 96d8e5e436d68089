package list_tenant_bookings

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

// Handle GET /api/v1/tenants/{tenantId}/bookings
// Query params: status, limit, offset (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]

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

	page, err := h.service.ListTenantBookings(r.Context(), &models.ListTenantBookingsRequest{
		Caller:   caller,
		TenantID: tenantID,
		Status:   handlers.QueryString(r, "status"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /tenants/{id}/bookings - Access denied: tenant_id=%s, caller=%s", tenantID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /tenants/{id}/bookings - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tenants/{id}/bookings - Failed to list bookings: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/bookings - Bookings retrieved successfully: tenant_id=%s, count=%d, total=%d",
		tenantID, len(page.Bookings), page.Total)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainPage(page))
}
