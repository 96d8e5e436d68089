package booking

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

var (
	bookingID = uuid.MustParse("7f1f7a3e-3c1b-4e0a-9f3e-1b2c3d4e5f60")
	createdAt = time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func addBookingRow(rows *sqlmock.Rows, status string, messages string, cancellation interface{}) *sqlmock.Rows {
	return rows.AddRow(
		bookingID.String(),
		"property-1",
		"tenant-1",
		"owner-1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		"30000.00",
		"10000.00",
		status,
		"pending",
		[]byte(messages),
		cancellation,
		createdAt,
		createdAt,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)

	b := &domain.Booking{
		ID:            bookingID,
		PropertyID:    "property-1",
		TenantID:      "tenant-1",
		OwnerID:       "owner-1",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.NewFromInt(30000),
		DepositAmount: decimal.NewFromInt(10000),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (id,property_id,tenant_id,owner_id,start_date,end_date,total_amount,deposit_amount,status,payment_status,messages,cancellation,created_at,updated_at)")).
		WithArgs(
			bookingID,
			"property-1",
			"tenant-1",
			"owner-1",
			"2024-01-01",
			"2024-03-31",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"pending",
			"pending",
			"[]",
			nil,
			createdAt,
			createdAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))

	created, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, bookingID, created.ID)
	assert.NotNil(t, created.Messages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newRepo(t)

	messages := `[{"senderId":"tenant-1","text":"hello","timestamp":"2024-01-01T10:00:00Z"},{"senderId":"owner-1","text":"hi","timestamp":"2024-01-01T11:00:00Z"}]`

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(bookingID).
		WillReturnRows(addBookingRow(bookingRows(), "approved", messages, nil))

	b, err := repo.GetByID(context.Background(), bookingID)
	require.NoError(t, err)

	assert.Equal(t, "property-1", b.PropertyID)
	assert.Equal(t, domain.StatusApproved, b.Status)
	assert.True(t, decimal.NewFromInt(30000).Equal(b.TotalAmount))
	require.Len(t, b.Messages, 2)
	assert.Equal(t, "hello", b.Messages[0].Text)
	assert.Equal(t, "hi", b.Messages[1].Text)
	assert.Nil(t, b.Cancellation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("FROM bookings").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), bookingID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByID_LocksInsideTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
		WillReturnRows(addBookingRow(bookingRows(), "pending", "[]", nil))
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = repo.GetByID(dbmetrics.WithTx(ctx, tx), bookingID)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_Cancellation(t *testing.T) {
	repo, _, mock := newRepo(t)

	cancellation := []byte(`{"date":"2024-01-05T00:00:00Z","reason":"plans changed","requestedBy":"tenant-1","refundAmount":"10000","status":"pending"}`)
	mock.ExpectQuery("FROM bookings").
		WillReturnRows(addBookingRow(bookingRows(), "cancelled", "[]", cancellation))

	b, err := repo.GetByID(context.Background(), bookingID)
	require.NoError(t, err)
	require.NotNil(t, b.Cancellation)
	assert.Equal(t, "plans changed", b.Cancellation.Reason)
	assert.True(t, decimal.NewFromInt(10000).Equal(b.Cancellation.RefundAmount))
	assert.Equal(t, domain.CancellationPending, b.Cancellation.Status)
}

func TestRepository_List_AvailabilityFilter(t *testing.T) {
	repo, db, mock := newRepo(t)
	ctx := context.Background()

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	exclude := uuid.New()

	query := "SELECT id, property_id, tenant_id, owner_id, start_date, end_date, total_amount, deposit_amount, status, payment_status, messages, cancellation, created_at, updated_at " +
		"FROM bookings WHERE property_id = $1 AND start_date <= $2 AND end_date >= $3 AND status NOT IN ($4,$5) AND id <> $6 " +
		"ORDER BY start_date ASC, created_at ASC FOR UPDATE"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("property-1", "2024-02-15", "2024-02-01", "rejected", "cancelled", exclude).
		WillReturnRows(addBookingRow(bookingRows(), "pending", "[]", nil))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	bookings, err := repo.List(dbmetrics.WithTx(ctx, tx), domain.BookingsFilter{
		PropertyID: ptr.Ptr("property-1"),
		From:       &start,
		To:         &end,
		ExcludeID:  &exclude,
		ForUpdate:  true,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Len(t, bookings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_PagingWithoutLock(t *testing.T) {
	repo, _, mock := newRepo(t)
	status := domain.StatusApproved

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE tenant_id = $1 AND status = $2 ORDER BY start_date ASC, created_at ASC LIMIT 20 OFFSET 40")).
		WithArgs("tenant-1", "approved").
		WillReturnRows(bookingRows())

	bookings, err := repo.List(context.Background(), domain.BookingsFilter{
		TenantID:  ptr.Ptr("tenant-1"),
		Status:    &status,
		Limit:     20,
		Offset:    40,
		ForUpdate: true, // ignored outside a transaction
	})
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE owner_id = $1")).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.Count(context.Background(), domain.BookingsFilter{OwnerID: ptr.Ptr("owner-1"), IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 42, total)
}

func TestRepository_Update(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	b := &domain.Booking{
		ID:            bookingID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.NewFromInt(30000),
		DepositAmount: decimal.NewFromInt(10000),
		Status:        domain.StatusCancelled,
		PaymentStatus: domain.PaymentPending,
		Cancellation: &domain.Cancellation{
			Date:         now,
			RequestedBy:  "tenant-1",
			RefundAmount: decimal.Zero,
			Status:       domain.CancellationProcessed,
		},
		UpdatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET start_date = $1, end_date = $2, total_amount = $3, deposit_amount = $4, status = $5, payment_status = $6, cancellation = $7, updated_at = $8 WHERE id = $9")).
		WithArgs("2024-01-01", "2024-03-31", sqlmock.AnyArg(), sqlmock.AnyArg(), "cancelled", "pending", sqlmock.AnyArg(), now, bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Booking{ID: bookingID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_UpdateStatus_Conditional(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4")).
		WithArgs("completed", now, bookingID, "approved").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), bookingID, domain.StatusApproved, domain.StatusCompleted, now)
	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AppendMessage(t *testing.T) {
	repo, _, mock := newRepo(t)
	ts := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	msg := domain.Message{SenderID: "owner-1", Text: "welcome", Timestamp: ts}
	stored := `[{"senderId":"tenant-1","text":"hello","timestamp":"2024-01-01T10:00:00Z"},{"senderId":"owner-1","text":"welcome","timestamp":"2024-01-02T09:00:00Z"}]`

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET messages = messages || $1::jsonb, updated_at = $2 WHERE id = $3 RETURNING id,")).
		WithArgs(`[{"senderId":"owner-1","text":"welcome","timestamp":"2024-01-02T09:00:00Z"}]`, ts, bookingID).
		WillReturnRows(addBookingRow(bookingRows(), "pending", stored, nil))

	b, err := repo.AppendMessage(context.Background(), bookingID, msg)
	require.NoError(t, err)
	require.Len(t, b.Messages, 2)
	assert.Equal(t, "welcome", b.Messages[1].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AppendMessage_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("UPDATE bookings").WillReturnRows(bookingRows())

	_, err := repo.AppendMessage(context.Background(), bookingID, domain.Message{Text: "x"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs(bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), bookingID))

	mock.ExpectExec("DELETE FROM bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), bookingID), ErrBookingNotFound)
}

func TestRepository_ExecErrorIsWrapped(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM bookings").WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), bookingID)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.Contains(t, err.Error(), "connection reset")
}
