package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HouseRent-BookingService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"property_id",
	"tenant_id",
	"owner_id",
	"start_date",
	"end_date",
	"total_amount",
	"deposit_amount",
	"status",
	"payment_status",
	"messages",
	"cancellation",
	"created_at",
	"updated_at",
}

// Repository stores bookings in PostgreSQL. Messages and the cancellation
// record live in JSONB columns of the booking row.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a booking repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts the booking. The ID must already be set.
// Uses the transaction from ctx when there is one.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	messages, err := encodeMessages(booking.Messages)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode messages: %v", ErrEncode, err)
	}
	cancellation, err := encodeCancellation(booking.Cancellation)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode cancellation: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"property_id",
			"tenant_id",
			"owner_id",
			"start_date",
			"end_date",
			"total_amount",
			"deposit_amount",
			"status",
			"payment_status",
			"messages",
			"cancellation",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ID,
			booking.PropertyID,
			booking.TenantID,
			booking.OwnerID,
			dateParam(booking.StartDate),
			dateParam(booking.EndDate),
			booking.TotalAmount,
			booking.DepositAmount,
			booking.Status,
			booking.PaymentStatus,
			messages,
			cancellation,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if booking.Messages == nil {
		booking.Messages = []domain.Message{}
	}

	return booking, nil
}

// GetByID returns the booking with the given ID.
// Inside a transaction the row is locked with FOR UPDATE.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - %v", ErrScanRow, err)
	}

	return booking, nil
}

// List returns bookings matching the filter.
//
// Examples:
//
//	// bookings blocking property p-1 between two dates
//	filter := domain.BookingsFilter{PropertyID: ptr.Ptr("p-1"), From: &start, To: &end}
//
//	// every booking of a tenant, including rejected and cancelled
//	filter := domain.BookingsFilter{TenantID: ptr.Ptr("t-1"), IncludeInactive: true}
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(psqlbuilder.Select(columns...).From(table), filter).
		OrderBy("start_date ASC", "created_at ASC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	// lock the conflicting rows only when the caller runs in a transaction
	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Count returns the number of bookings matching the filter, ignoring paging
func (r *Repository) Count(ctx context.Context, filter domain.BookingsFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(table), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// Update persists the mutable fields of the booking: dates, amounts,
// status, payment status and the cancellation record. Messages are only
// changed through AppendMessage.
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cancellation, err := encodeCancellation(booking.Cancellation)
	if err != nil {
		return fmt.Errorf("%w: Update - encode cancellation: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("start_date", dateParam(booking.StartDate)).
		Set("end_date", dateParam(booking.EndDate)).
		Set("total_amount", booking.TotalAmount).
		Set("deposit_amount", booking.DepositAmount).
		Set("status", booking.Status).
		Set("payment_status", booking.PaymentStatus).
		Set("cancellation", cancellation).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "Update", query, args, ErrBookingNotFound)
}

// UpdateStatus moves the booking from expected to status in one statement.
// Returns ErrStatusChanged when the stored status is no longer expected.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, status domain.BookingStatus, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "status": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "UpdateStatus", query, args, ErrStatusChanged)
}

// AppendMessage atomically appends msg to the booking's message list and
// returns the updated booking. Concurrent appends never lose a message.
func (r *Repository) AppendMessage(ctx context.Context, id uuid.UUID, msg domain.Message) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal([]domain.Message{msg})
	if err != nil {
		return nil, fmt.Errorf("%w: AppendMessage - encode message: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("messages", squirrel.Expr("messages || ?::jsonb", string(payload))).
		Set("updated_at", msg.Timestamp).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AppendMessage - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: AppendMessage - %v", ErrExecQuery, err)
	}

	return booking, nil
}

// Delete physically removes the booking
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "Delete", query, args, ErrBookingNotFound)
}

// applyFilter adds the WHERE clauses of the filter
func applyFilter(sb squirrel.SelectBuilder, filter domain.BookingsFilter) squirrel.SelectBuilder {
	if filter.PropertyID != nil {
		sb = sb.Where(squirrel.Eq{"property_id": *filter.PropertyID})
	}
	if filter.TenantID != nil {
		sb = sb.Where(squirrel.Eq{"tenant_id": *filter.TenantID})
	}
	if filter.OwnerID != nil {
		sb = sb.Where(squirrel.Eq{"owner_id": *filter.OwnerID})
	}

	// inclusive overlap: start_date <= to AND end_date >= from
	if filter.To != nil {
		sb = sb.Where(squirrel.LtOrEq{"start_date": dateParam(*filter.To)})
	}
	if filter.From != nil {
		sb = sb.Where(squirrel.GtOrEq{"end_date": dateParam(*filter.From)})
	}
	if filter.EndBefore != nil {
		sb = sb.Where(squirrel.Lt{"end_date": dateParam(*filter.EndBefore)})
	}

	if filter.Status != nil {
		sb = sb.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		sb = sb.Where(squirrel.NotEq{"status": inactive})
	}

	if filter.ExcludeID != nil {
		sb = sb.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	return sb
}

func execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}, notFound error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking      domain.Booking
		messages     []byte
		cancellation []byte
	)

	err := row.Scan(
		&booking.ID,
		&booking.PropertyID,
		&booking.TenantID,
		&booking.OwnerID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalAmount,
		&booking.DepositAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&messages,
		&cancellation,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.StartDate = domain.DateOnly(booking.StartDate)
	booking.EndDate = domain.DateOnly(booking.EndDate)

	if booking.Messages, err = decodeMessages(messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if booking.Cancellation, err = decodeCancellation(cancellation); err != nil {
		return nil, fmt.Errorf("decode cancellation: %w", err)
	}

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func encodeMessages(messages []domain.Message) (string, error) {
	if messages == nil {
		messages = []domain.Message{}
	}
	data, err := json.Marshal(messages)
	return string(data), err
}

func decodeMessages(data []byte) ([]domain.Message, error) {
	messages := []domain.Message{}
	if len(data) == 0 {
		return messages, nil
	}
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func encodeCancellation(c *domain.Cancellation) (interface{}, error) {
	if c == nil {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeCancellation(data []byte) (*domain.Cancellation, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var c domain.Cancellation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// dateParam sends a calendar date as YYYY-MM-DD so Postgres compares it as a date
func dateParam(t time.Time) string {
	return t.Format(domain.DateFormat)
}
