package check_availability

import (
	"time"

	"github.com/google/uuid"
)

// Request asks whether [StartDate, EndDate] is free on a property
type Request struct {
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time

	// ExcludeBookingID skips a booking when re-checking its own dates
	ExcludeBookingID *uuid.UUID
}

// Response tells whether the interval is free and which periods block it
type Response struct {
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	Available  bool
	Conflicts  []BlockedPeriod
}

// BlockedPeriod is an occupied interval. Tenant data is not exposed.
type BlockedPeriod struct {
	StartDate time.Time
	EndDate   time.Time
	Status    string
}
