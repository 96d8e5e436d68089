package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/events"
	"github.com/m04kA/HouseRent-BookingService/internal/integrations/propertyservice"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

// UseCase creates bookings
type UseCase struct {
	bookingRepo    BookingRepository
	propertyClient PropertyClient
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase creates the use case
func NewUseCase(
	bookingRepo BookingRepository,
	propertyClient PropertyClient,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		propertyClient: propertyClient,
		txManager:      txManager,
		notifier:       notifier,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider replaces the clock
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute creates a pending booking. The conflict check and the insert run
// in one serializable transaction, so two overlapping requests for the same
// property cannot both succeed.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	if req.TenantID == "" {
		req.TenantID = req.Caller.ID
	}

	uc.logger.Info("CreateBooking: tenant=%s, property=%s, period=%s..%s",
		req.TenantID, req.PropertyID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	now := uc.timeProvider.Now()

	// 1. Validate input
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Only the tenant themself or an admin may book
	if err := authorize(req); err != nil {
		uc.logger.Warn("CreateBooking: caller=%s (%s) cannot book for tenant=%s", req.Caller.ID, req.Caller.Role, req.TenantID)
		return nil, err
	}

	// 3. Look up the property for owner and price
	property, err := uc.propertyClient.GetProperty(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyservice.ErrPropertyNotFound) {
			uc.logger.Warn("CreateBooking: property id=%s not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("CreateBooking: failed to get property id=%s: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}

	if property.OwnerID == req.TenantID {
		uc.logger.Warn("CreateBooking: owner=%s tried to book own property=%s", req.TenantID, req.PropertyID)
		return nil, ErrOwnProperty
	}

	// 4. Compute amounts unless supplied
	start, end := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	total, deposit := domain.ComputeAmounts(start, end, property.MonthlyPrice)
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}
	if req.DepositAmount != nil {
		deposit = *req.DepositAmount
	}

	booking := &domain.Booking{
		ID:            uuid.New(),
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		OwnerID:       property.OwnerID,
		StartDate:     start,
		EndDate:       end,
		TotalAmount:   total,
		DepositAmount: deposit,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Messages:      []domain.Message{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Message != nil {
		booking.Messages = append(booking.Messages, domain.Message{
			SenderID:  req.Caller.ID,
			Text:      *req.Message,
			Timestamp: now,
		})
	}

	var result *domain.Booking

	// 5. Check availability and insert in one serializable transaction
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Lock active bookings overlapping the interval
		existing, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			PropertyID: ptr.Ptr(req.PropertyID),
			From:       &start,
			To:         &end,
			ForUpdate:  true,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		// 5.2. Reject on conflict
		if conflict := domain.FirstConflict(existing, start, end); conflict != nil {
			uc.logger.Warn("CreateBooking: property=%s already booked %s..%s by booking id=%s",
				req.PropertyID, conflict.StartDate.Format(domain.DateFormat), conflict.EndDate.Format(domain.DateFormat), conflict.ID)
			return domain.ErrDatesUnavailable
		}

		// 5.3. Insert
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingCreated()
	uc.notifier.Notify(ctx, events.BookingCreated, result, req.Caller.ID)

	uc.logger.Info("CreateBooking: created booking id=%s, total=%s, deposit=%s",
		result.ID, result.TotalAmount, result.DepositAmount)

	return result, nil
}
