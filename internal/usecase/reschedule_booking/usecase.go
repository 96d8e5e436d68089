package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/events"
	bookingRepo "github.com/m04kA/HouseRent-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HouseRent-BookingService/internal/integrations/propertyservice"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

// UseCase changes the dates of a pending booking
type UseCase struct {
	bookingRepo    BookingRepository
	propertyClient PropertyClient
	txManager      TransactionManager
	notifier       Notifier
	timeProvider   TimeProvider
	logger         Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	propertyClient PropertyClient,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		propertyClient: propertyClient,
		txManager:      txManager,
		notifier:       notifier,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider replaces the clock
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute re-validates availability for the new interval, ignoring the
// booking itself, and recomputes the amounts from the current price
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, caller=%s, period=%s..%s",
		req.BookingID, req.Caller.ID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	now := uc.timeProvider.Now()

	// 1. Validate the new interval
	if err := domain.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}
	start, end := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	if start.Before(domain.DateOnly(now)) {
		return nil, ErrStartInPast
	}
	if domain.DurationMonths(start, end) > domain.MaxStayMonths {
		return nil, fmt.Errorf("%w: at most %d months", ErrStayTooLong, domain.MaxStayMonths)
	}

	// 2. Load the booking and check access
	current, err := uc.getBooking(ctx, req)
	if err != nil {
		return nil, err
	}
	if !domain.CanReschedule(req.Caller, current) {
		uc.logger.Warn("RescheduleBooking: access denied for caller=%s to booking=%s", req.Caller.ID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 3. Current price of the property
	property, err := uc.propertyClient.GetProperty(ctx, current.PropertyID)
	if err != nil {
		if errors.Is(err, propertyservice.ErrPropertyNotFound) {
			uc.logger.Warn("RescheduleBooking: property id=%s not found", current.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get property id=%s: %v", current.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Re-check and update in one serializable transaction
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Re-read under lock
		booking, err := uc.getBooking(txCtx, req)
		if err != nil {
			return err
		}
		if booking.Status != domain.StatusPending {
			uc.logger.Warn("RescheduleBooking: booking=%s is %s", booking.ID, booking.Status)
			return ErrNotPending
		}

		// 4.2. Conflicts excluding the booking itself
		existing, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			PropertyID: ptr.Ptr(booking.PropertyID),
			From:       &start,
			To:         &end,
			ExcludeID:  &booking.ID,
			ForUpdate:  true,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}
		for _, other := range existing {
			if other.ID == booking.ID {
				continue
			}
			if other.ConflictsWith(start, end) {
				uc.logger.Warn("RescheduleBooking: conflict with booking=%s", other.ID)
				return domain.ErrDatesUnavailable
			}
		}

		// 4.3. Apply new dates and amounts
		booking.StartDate, booking.EndDate = start, end
		booking.TotalAmount, booking.DepositAmount = domain.ComputeAmounts(start, end, property.MonthlyPrice)
		booking.UpdatedAt = now

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to update booking=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, events.BookingRescheduled, result, req.Caller.ID)
	uc.logger.Info("RescheduleBooking: booking=%s moved to %s..%s, total=%s",
		result.ID, start.Format(domain.DateFormat), end.Format(domain.DateFormat), result.TotalAmount)

	return result, nil
}

func (uc *UseCase) getBooking(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}
