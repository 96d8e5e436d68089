package domain

// Business validation constants
const (
	DaysPerBillingMonth      = 30
	MaxCancellationReasonLen = 500
	DefaultListLimit         = 20
	MaxListLimit             = 100
	MaxStayMonths            = 120 // 10 years
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses that never block a property's dates
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelled,
}

// ActiveStatuses statuses that block a property's dates
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusCompleted,
}
