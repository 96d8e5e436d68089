package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

// Request to create a booking
type Request struct {
	Caller     domain.Caller
	TenantID   string // defaults to the caller
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time

	// Optional overrides of the computed amounts
	TotalAmount   *decimal.Decimal
	DepositAmount *decimal.Decimal

	// Optional first message to the owner
	Message *string
}
