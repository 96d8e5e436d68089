package create_booking

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	createBooking "github.com/m04kA/HouseRent-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TenantID      string           `json:"tenantId,omitempty"` // admins only, defaults to the caller
	PropertyID    string           `json:"propertyId" validate:"required"`
	StartDate     string           `json:"startDate" validate:"required"` // "2024-01-01"
	EndDate       string           `json:"endDate" validate:"required"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	DepositAmount *decimal.Decimal `json:"depositAmount,omitempty"`
	Message       *string          `json:"message,omitempty"`
}

// ToUseCaseRequest converts the HTTP request into the use case model
func (r *CreateBookingRequest) ToUseCaseRequest(caller domain.Caller) (*createBooking.Request, error) {
	start, err := handlers.ParseDate("startDate", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate("endDate", r.EndDate)
	if err != nil {
		return nil, err
	}

	tenantID := r.TenantID
	if tenantID == "" {
		tenantID = caller.ID
	}

	return &createBooking.Request{
		Caller:        caller,
		TenantID:      tenantID,
		PropertyID:    r.PropertyID,
		StartDate:     start,
		EndDate:       end,
		TotalAmount:   r.TotalAmount,
		DepositAmount: r.DepositAmount,
		Message:       r.Message,
	}, nil
}
