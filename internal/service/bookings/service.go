package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/events"
	bookingRepo "github.com/m04kA/HouseRent-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

// Service handles operations on a single existing booking
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider replaces the clock
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID returns the booking if the caller is its tenant, its owner or an admin
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Booking, error) {
	s.logger.Info("GetByID: fetching booking id=%s for caller=%s", id, caller.ID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !domain.CanView(caller, booking) {
		s.logger.Warn("GetByID: access denied for caller=%s to booking id=%s", caller.ID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// ListTenantBookings returns one page of a tenant's bookings ordered by
// start date, including rejected and cancelled ones
func (s *Service) ListTenantBookings(ctx context.Context, req *models.ListTenantBookingsRequest) (*models.Page, error) {
	s.logger.Info("ListTenantBookings: tenant=%s, caller=%s, status=%v", req.TenantID, req.Caller.ID, req.Status)

	if !domain.CanListTenantBookings(req.Caller, req.TenantID) {
		s.logger.Warn("ListTenantBookings: access denied for caller=%s to tenant=%s", req.Caller.ID, req.TenantID)
		return nil, ErrAccessDenied
	}

	filter := domain.BookingsFilter{
		TenantID:        ptr.Ptr(req.TenantID),
		IncludeInactive: true,
	}
	if err := applyStatus(&filter, req.Status); err != nil {
		return nil, err
	}

	return s.listPage(ctx, "ListTenantBookings", filter, req.Limit, req.Offset)
}

// ListOwnerBookings returns one page of bookings on an owner's properties,
// optionally narrowed to one property
func (s *Service) ListOwnerBookings(ctx context.Context, req *models.ListOwnerBookingsRequest) (*models.Page, error) {
	s.logger.Info("ListOwnerBookings: owner=%s, caller=%s, property=%v, status=%v",
		req.OwnerID, req.Caller.ID, req.PropertyID, req.Status)

	if !domain.CanListOwnerBookings(req.Caller, req.OwnerID) {
		s.logger.Warn("ListOwnerBookings: access denied for caller=%s to owner=%s", req.Caller.ID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	filter := domain.BookingsFilter{
		OwnerID:         ptr.Ptr(req.OwnerID),
		PropertyID:      req.PropertyID,
		IncludeInactive: true,
	}
	if err := applyStatus(&filter, req.Status); err != nil {
		return nil, err
	}

	return s.listPage(ctx, "ListOwnerBookings", filter, req.Limit, req.Offset)
}

// UpdateStatus moves the booking to the requested status. A move to
// cancelled is recorded as a cancellation request.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*domain.Booking, error) {
	s.logger.Info("UpdateStatus: booking id=%s to status=%s by caller=%s", id, req.Status, req.Caller.ID)

	// 1. Validate the target status
	to, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	if to == domain.StatusCancelled {
		return s.Cancel(ctx, id, &models.CancelBookingRequest{Caller: req.Caller, Reason: req.Reason})
	}

	var (
		result *domain.Booking
		from   domain.BookingStatus
	)

	// 2. Read, check and write under a row lock
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !domain.CanView(req.Caller, booking) || (to != domain.StatusPending && !domain.CanSetStatus(req.Caller, booking, to)) {
			s.logger.Warn("UpdateStatus: access denied for caller=%s to booking id=%s", req.Caller.ID, id)
			return ErrAccessDenied
		}

		from = booking.Status
		if err := booking.TransitionTo(to, s.timeProvider.Now()); err != nil {
			s.logger.Warn("UpdateStatus: booking id=%s: %v", id, err)
			return err
		}

		if err := s.updateBooking(txCtx, "UpdateStatus", booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(string(from), string(to))
	s.notifier.Notify(ctx, events.BookingStatusChanged, result, req.Caller.ID)
	s.logger.Info("UpdateStatus: booking id=%s moved %s -> %s", id, from, to)

	return result, nil
}

// Cancel cancels a pending or approved booking and fills its
// cancellation record with the refund due
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelBookingRequest) (*domain.Booking, error) {
	s.logger.Info("Cancel: booking id=%s by caller=%s", id, req.Caller.ID)

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLen {
		return nil, fmt.Errorf("%w: at most %d characters", ErrReasonTooLong, domain.MaxCancellationReasonLen)
	}

	var (
		result *domain.Booking
		from   domain.BookingStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if !domain.CanCancel(req.Caller, booking) {
			s.logger.Warn("Cancel: access denied for caller=%s to booking id=%s", req.Caller.ID, id)
			return ErrAccessDenied
		}

		from = booking.Status
		if err := booking.Cancel(req.Caller.ID, reason, s.timeProvider.Now()); err != nil {
			s.logger.Warn("Cancel: booking id=%s: %v", id, err)
			return err
		}

		if err := s.updateBooking(txCtx, "Cancel", booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(string(from), string(domain.StatusCancelled))
	s.notifier.Notify(ctx, events.BookingCancelled, result, req.Caller.ID)
	s.logger.Info("Cancel: booking id=%s cancelled, refund=%s (%s)",
		id, result.Cancellation.RefundAmount, result.Cancellation.Status)

	return result, nil
}

// AddMessage appends a negotiation message. Messages are never edited or
// removed, and their order is the order of appends.
func (s *Service) AddMessage(ctx context.Context, id uuid.UUID, req *models.AddMessageRequest) (*domain.Booking, error) {
	s.logger.Info("AddMessage: booking id=%s by caller=%s", id, req.Caller.ID)

	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyMessage
	}

	booking, err := s.getBooking(ctx, "AddMessage", id)
	if err != nil {
		return nil, err
	}

	if !domain.CanMessage(req.Caller, booking) {
		s.logger.Warn("AddMessage: access denied for caller=%s to booking id=%s", req.Caller.ID, id)
		return nil, ErrAccessDenied
	}

	updated, err := s.bookingRepo.AppendMessage(ctx, id, domain.Message{
		SenderID:  req.Caller.ID,
		Text:      req.Text,
		Timestamp: s.timeProvider.Now(),
	})
	if err != nil {
		return nil, s.repoError("AddMessage", id, err)
	}

	s.notifier.Notify(ctx, events.BookingMessageAdded, updated, req.Caller.ID)
	s.logger.Info("AddMessage: booking id=%s now has %d message(s)", id, len(updated.Messages))

	return updated, nil
}

// UpdatePaymentStatus changes the payment state of the booking
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *models.UpdatePaymentStatusRequest) (*domain.Booking, error) {
	s.logger.Info("UpdatePaymentStatus: booking id=%s to %s by caller=%s", id, req.PaymentStatus, req.Caller.ID)

	status, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid payment status=%s", req.PaymentStatus)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.PaymentStatus)
	}

	var result *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdatePaymentStatus", id)
		if err != nil {
			return err
		}

		if !domain.CanUpdatePayment(req.Caller, booking) {
			s.logger.Warn("UpdatePaymentStatus: access denied for caller=%s to booking id=%s", req.Caller.ID, id)
			return ErrAccessDenied
		}

		if err := booking.SetPaymentStatus(status, s.timeProvider.Now()); err != nil {
			s.logger.Warn("UpdatePaymentStatus: booking id=%s: %v", id, err)
			return err
		}

		if err := s.updateBooking(txCtx, "UpdatePaymentStatus", booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.BookingPaymentUpdated, result, req.Caller.ID)
	s.logger.Info("UpdatePaymentStatus: booking id=%s payment=%s", id, status)

	return result, nil
}

// Delete removes the booking. It returns the removed booking.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Booking, error) {
	s.logger.Info("Delete: booking id=%s by caller=%s", id, caller.ID)

	booking, err := s.getBooking(ctx, "Delete", id)
	if err != nil {
		return nil, err
	}

	if !domain.CanDelete(caller, booking) {
		s.logger.Warn("Delete: access denied for caller=%s to booking id=%s", caller.ID, id)
		return nil, ErrAccessDenied
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return nil, s.repoError("Delete", id, err)
	}

	s.notifier.Notify(ctx, events.BookingDeleted, booking, caller.ID)
	s.logger.Info("Delete: booking id=%s deleted", id)

	return booking, nil
}

// Helpers

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError(op, id, err)
	}
	return booking, nil
}

func (s *Service) updateBooking(ctx context.Context, op string, booking *domain.Booking) error {
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return s.repoError(op, booking.ID, err)
	}
	return nil
}

func (s *Service) repoError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) listPage(ctx context.Context, op string, filter domain.BookingsFilter, limit, offset uint64) (*models.Page, error) {
	filter.Limit = models.NormalizePage(limit)
	filter.Offset = offset

	var (
		bookings []*domain.Booking
		total    int
	)

	// page and total from one snapshot
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.List(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: %s - list: %v", ErrInternal, op, err)
		}

		total, err = s.bookingRepo.Count(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: %s - count: %v", ErrInternal, op, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s - read transaction: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: fetched %d of %d bookings", op, len(bookings), total)

	return &models.Page{
		Bookings: bookings,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

func applyStatus(filter *domain.BookingsFilter, status *string) error {
	if status == nil || *status == "" {
		return nil
	}
	st, err := models.ToDomainBookingStatus(*status)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *status)
	}
	filter.Status = &st
	return nil
}
