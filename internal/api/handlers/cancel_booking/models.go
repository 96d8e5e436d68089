package cancel_booking

import (
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest converts the HTTP request into the service model
func (r *CancelBookingRequest) ToServiceRequest(caller domain.Caller) *models.CancelBookingRequest {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &models.CancelBookingRequest{
		Caller: caller,
		Reason: reason,
	}
}
