package reschedule_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

// Request moves a pending booking to new dates
type Request struct {
	Caller    domain.Caller
	BookingID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}
