package check_availability

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

// UseCase answers availability queries for a property
type UseCase struct {
	bookingRepo BookingRepository
	metrics     Metrics
	logger      Logger
}

func NewUseCase(bookingRepo BookingRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute reports whether the interval is free of active bookings.
// Property existence is the caller's concern.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: property=%s, period=%s..%s",
		req.PropertyID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Validate input
	if strings.TrimSpace(req.PropertyID) == "" {
		return nil, fmt.Errorf("%w: propertyId is required", ErrInvalidInput)
	}
	if err := domain.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	start, end := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)

	// 2. Load active bookings touching the interval
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		PropertyID: ptr.Ptr(req.PropertyID),
		From:       &start,
		To:         &end,
		ExcludeID:  req.ExcludeBookingID,
	})
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list bookings for property=%s: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	// 3. Apply the conflict rule
	resp := &Response{
		PropertyID: req.PropertyID,
		StartDate:  start,
		EndDate:    end,
		Conflicts:  []BlockedPeriod{},
	}
	for _, b := range bookings {
		if req.ExcludeBookingID != nil && b.ID == *req.ExcludeBookingID {
			continue
		}
		if b.ConflictsWith(start, end) {
			resp.Conflicts = append(resp.Conflicts, BlockedPeriod{
				StartDate: b.StartDate,
				EndDate:   b.EndDate,
				Status:    string(b.Status),
			})
		}
	}
	resp.Available = len(resp.Conflicts) == 0

	uc.metrics.IncAvailabilityCheck(resp.Available)
	uc.logger.Info("CheckAvailability: property=%s available=%t, conflicts=%d",
		req.PropertyID, resp.Available, len(resp.Conflicts))

	return resp, nil
}
