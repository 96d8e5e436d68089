package list_tenant_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListTenantBookings(ctx context.Context, req *models.ListTenantBookingsRequest) (*models.Page, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.(*models.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var caller = domain.Caller{ID: "tenant-1", Role: domain.RoleTenant}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/tenants/{tenantId}/bookings", NewHandler(svc, nopLogger{}).Handle)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r = r.WithContext(middleware.WithCaller(r.Context(), caller))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandle_PassesFilters(t *testing.T) {
	svc := &mockService{}
	svc.On("ListTenantBookings", mock.Anything, mock.MatchedBy(func(req *models.ListTenantBookingsRequest) bool {
		return req.TenantID == "tenant-1" &&
			req.Caller == caller &&
			req.Status != nil && *req.Status == "approved" &&
			req.Limit == 5 && req.Offset == 10
	})).Return(&models.Page{
		Bookings: []*domain.Booking{{ID: uuid.New(), Status: domain.StatusApproved}},
		Total:    11,
		Limit:    5,
		Offset:   10,
	}, nil)

	rec := serve(svc, "/tenants/tenant-1/bookings?status=approved&limit=5&offset=10")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":11`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	t.Run("bad limit", func(t *testing.T) {
		svc := &mockService{}
		rec := serve(svc, "/tenants/tenant-1/bookings?limit=-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ListTenantBookings", mock.Anything, mock.Anything)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &mockService{}
		svc.On("ListTenantBookings", mock.Anything, mock.Anything).Return(nil, bookings.ErrAccessDenied)
		rec := serve(svc, "/tenants/tenant-2/bookings")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &mockService{}
		svc.On("ListTenantBookings", mock.Anything, mock.Anything).Return(nil, bookings.ErrInvalidStatus)
		rec := serve(svc, "/tenants/tenant-1/bookings?status=done")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
