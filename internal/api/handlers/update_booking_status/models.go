package update_booking_status

import (
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected cancelled completed"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// ToServiceRequest converts the HTTP request into the service model
func (r *UpdateStatusRequest) ToServiceRequest(caller domain.Caller) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		Caller: caller,
		Status: r.Status,
		Reason: r.Reason,
	}
}
