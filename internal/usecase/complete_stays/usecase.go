package complete_stays

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/events"
	bookingRepo "github.com/m04kA/HouseRent-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

const (
	// SystemActorID is recorded as the actor of automatic transitions
	SystemActorID = "system"

	defaultBatchSize = 500
)

// UseCase moves approved bookings whose stay has ended to completed
type UseCase struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	batchSize    uint64
}

func NewUseCase(bookingRepo BookingRepository, notifier Notifier, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		batchSize:    defaultBatchSize,
	}
}

// WithTimeProvider replaces the clock
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithBatchSize sets how many bookings are loaded per query
func (uc *UseCase) WithBatchSize(size uint64) *UseCase {
	if size > 0 {
		uc.batchSize = size
	}
	return uc
}

// Execute completes every approved booking that ended before today and
// returns how many were completed. A booking whose status changed
// meanwhile is skipped.
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	now := uc.timeProvider.Now()
	today := domain.DateOnly(now)
	approved := domain.StatusApproved

	completed := 0
	var failed uint64

	for {
		// 1. Next batch. Completed rows leave the filter, failed ones stay
		// at the head, so the offset only skips failures.
		batch, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
			Status:    ptr.Ptr(approved),
			EndBefore: &today,
			Limit:     uc.batchSize,
			Offset:    failed,
		})
		if err != nil {
			uc.logger.Error("CompleteStays: failed to list approved bookings: %v", err)
			return completed, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		// 2. Conditional update of each booking
		for _, b := range batch {
			if !domain.CanTransition(b.Status, domain.StatusCompleted) {
				failed++
				continue
			}

			err := uc.bookingRepo.UpdateStatus(ctx, b.ID, domain.StatusApproved, domain.StatusCompleted, now)
			switch {
			case err == nil:
			case errors.Is(err, bookingRepo.ErrStatusChanged), errors.Is(err, bookingRepo.ErrBookingNotFound):
				uc.logger.Warn("CompleteStays: booking=%s changed concurrently, skipped", b.ID)
				continue
			default:
				uc.logger.Error("CompleteStays: failed to complete booking=%s: %v", b.ID, err)
				failed++
				continue
			}

			b.Status = domain.StatusCompleted
			b.UpdatedAt = now
			completed++

			uc.metrics.IncStatusTransition(string(domain.StatusApproved), string(domain.StatusCompleted))
			uc.notifier.Notify(ctx, events.BookingStatusChanged, b, SystemActorID)
		}

		if uint64(len(batch)) < uc.batchSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return completed, err
		}
	}

	if completed > 0 || failed > 0 {
		uc.logger.Info("CompleteStays: completed=%d, failed=%d", completed, failed)
	}

	return completed, nil
}
