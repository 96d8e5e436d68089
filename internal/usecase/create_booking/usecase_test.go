package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/integrations/propertyservice"
	"github.com/m04kA/HouseRent-BookingService/pkg/ptr"
)

// memoryRepo filters like the SQL repository: by property, inclusive
// overlap and excluding inactive statuses
type memoryRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	listErr  error
}

func (r *memoryRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b)
	return b, nil
}

func (r *memoryRepo) List(ctx context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Booking
	for _, b := range r.bookings {
		if f.PropertyID != nil && b.PropertyID != *f.PropertyID {
			continue
		}
		if f.From != nil && f.To != nil && !domain.Overlaps(b.StartDate, b.EndDate, *f.From, *f.To) {
			continue
		}
		if !f.IncludeInactive && !b.BlocksAvailability() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// serialTx runs callbacks one at a time like a serializable transaction
type serialTx struct {
	mu sync.Mutex
}

func (tx *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return fn(ctx)
}

type mockPropertyClient struct {
	mock.Mock
}

func (m *mockPropertyClient) GetProperty(ctx context.Context, propertyID string) (*propertyservice.Property, error) {
	args := m.Called(ctx, propertyID)
	if p := args.Get(0); p != nil {
		return p.(*propertyservice.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(ctx context.Context, eventType string, b *domain.Booking, actorID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

type countingMetrics struct {
	mu      sync.Mutex
	created int
}

func (m *countingMetrics) IncBookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	uc       *UseCase
	repo     *memoryRepo
	props    *mockPropertyClient
	notifier *recordingNotifier
	metrics  *countingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &memoryRepo{},
		props:    &mockPropertyClient{},
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.props, &serialTx{}, f.notifier, f.metrics, nopLogger{}).
		WithTimeProvider(fixedTime{now: date("2023-12-15")})

	f.props.On("GetProperty", mock.Anything, "prop-1").Return(&propertyservice.Property{
		ID:           "prop-1",
		OwnerID:      "owner-1",
		MonthlyPrice: decimal.NewFromInt(10000),
	}, nil).Maybe()

	return f
}

func tenantRequest(start, end string) *Request {
	return &Request{
		Caller:     domain.Caller{ID: "tenant-1", Role: domain.RoleTenant},
		PropertyID: "prop-1",
		StartDate:  date(start),
		EndDate:    date(end),
	}
}

func TestExecute_ComputesAmountsAndStartsPending(t *testing.T) {
	f := newFixture(t)

	b, err := f.uc.Execute(context.Background(), tenantRequest("2024-01-01", "2024-03-31"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, "tenant-1", b.TenantID)
	assert.Equal(t, "owner-1", b.OwnerID)
	assert.True(t, decimal.NewFromInt(30000).Equal(b.TotalAmount), "total=%s", b.TotalAmount)
	assert.True(t, decimal.NewFromInt(10000).Equal(b.DepositAmount), "deposit=%s", b.DepositAmount)
	assert.Empty(t, b.Messages)
	assert.Equal(t, []string{"booking.created"}, f.notifier.events)
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_CalendarQuarterIsFourBillingMonths(t *testing.T) {
	f := newFixture(t)

	b, err := f.uc.Execute(context.Background(), tenantRequest("2024-01-01", "2024-04-01"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40000).Equal(b.TotalAmount), "total=%s", b.TotalAmount)
}

func TestExecute_SuppliedAmountsOverride(t *testing.T) {
	f := newFixture(t)

	req := tenantRequest("2024-01-01", "2024-03-31")
	req.TotalAmount = ptr.Ptr(decimal.NewFromInt(25000))
	req.DepositAmount = ptr.Ptr(decimal.Zero)
	req.Message = ptr.Ptr("Is parking available?")

	b, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(25000).Equal(b.TotalAmount))
	assert.True(t, b.DepositAmount.IsZero())
	require.Len(t, b.Messages, 1)
	assert.Equal(t, "tenant-1", b.Messages[0].SenderID)
}

func TestExecute_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		existing domain.BookingStatus
		start    string
		end      string
		wantErr  error
	}{
		{"overlapping pending blocks", domain.StatusPending, "2024-02-01", "2024-02-15", domain.ErrDatesUnavailable},
		{"shared boundary day blocks", domain.StatusApproved, "2024-03-01", "2024-04-01", domain.ErrDatesUnavailable},
		{"rejected never blocks", domain.StatusRejected, "2024-02-01", "2024-02-15", nil},
		{"cancelled never blocks", domain.StatusCancelled, "2024-01-01", "2024-03-01", nil},
		{"day after is free", domain.StatusApproved, "2024-03-02", "2024-04-01", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.bookings = []*domain.Booking{{
				PropertyID: "prop-1",
				StartDate:  date("2024-01-01"),
				EndDate:    date("2024-03-01"),
				Status:     tt.existing,
			}}

			_, err := f.uc.Execute(context.Background(), tenantRequest(tt.start, tt.end))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Len(t, f.repo.bookings, 1)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, f.repo.bookings, 2)
		})
	}
}

func TestExecute_ConcurrentOverlappingRequestsCreateOneBooking(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), tenantRequest("2024-01-01", "2024-02-01"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDatesUnavailable)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.repo.bookings, 1)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"start equals end", func(r *Request) { r.EndDate = r.StartDate }, domain.ErrInvalidDateRange},
		{"end before start", func(r *Request) { r.StartDate, r.EndDate = r.EndDate, r.StartDate }, domain.ErrInvalidDateRange},
		{"missing property", func(r *Request) { r.PropertyID = " " }, ErrInvalidInput},
		{"start in the past", func(r *Request) { r.StartDate = date("2023-12-01") }, ErrStartInPast},
		{"negative total", func(r *Request) { r.TotalAmount = ptr.Ptr(decimal.NewFromInt(-1)) }, domain.ErrNegativeAmount},
		{"negative deposit", func(r *Request) { r.DepositAmount = ptr.Ptr(decimal.NewFromInt(-1)) }, domain.ErrNegativeAmount},
		{"blank message", func(r *Request) { r.Message = ptr.Ptr("  ") }, ErrInvalidInput},
		{"too long", func(r *Request) { r.EndDate = date("2040-01-01") }, ErrStayTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := tenantRequest("2024-01-01", "2024-03-31")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.repo.bookings)
		})
	}
}

func TestExecute_PropertyErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.props.On("GetProperty", mock.Anything, "gone").Return(nil, propertyservice.ErrPropertyNotFound)

		req := tenantRequest("2024-01-01", "2024-03-31")
		req.PropertyID = "gone"

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrPropertyNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.props.On("GetProperty", mock.Anything, "flaky").Return(nil, propertyservice.ErrUnavailable)

		req := tenantRequest("2024-01-01", "2024-03-31")
		req.PropertyID = "flaky"

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInternal)
		assert.NotErrorIs(t, err, domain.ErrValidation)
	})
}

func TestExecute_Authorization(t *testing.T) {
	t.Run("tenant cannot book for someone else", func(t *testing.T) {
		f := newFixture(t)
		req := tenantRequest("2024-01-01", "2024-03-31")
		req.TenantID = "tenant-2"

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin books on behalf of tenant", func(t *testing.T) {
		f := newFixture(t)
		req := tenantRequest("2024-01-01", "2024-03-31")
		req.Caller = domain.Caller{ID: "admin-1", Role: domain.RoleAdmin}
		req.TenantID = "tenant-2"

		b, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "tenant-2", b.TenantID)
	})

	t.Run("owner cannot book own property", func(t *testing.T) {
		f := newFixture(t)
		req := tenantRequest("2024-01-01", "2024-03-31")
		req.Caller = domain.Caller{ID: "owner-1", Role: domain.RoleOwner}

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOwnProperty)
	})
}

func TestExecute_RepositoryFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.listErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), tenantRequest("2024-01-01", "2024-03-31"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.notifier.events)
}
