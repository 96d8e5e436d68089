package update_payment_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *models.UpdatePaymentStatusRequest) (*domain.Booking, error) {
	args := m.Called(ctx, id, req)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	owner := domain.Caller{ID: "owner-1", Role: domain.RoleOwner}
	id := uuid.New()

	tests := []struct {
		name     string
		body     string
		result   *domain.Booking
		err      error
		wantCode int
	}{
		{"deposit paid", `{"paymentStatus":"partial"}`, &domain.Booking{ID: id, PaymentStatus: domain.PaymentPartial}, nil, http.StatusOK},
		{"refund before cancel", `{"paymentStatus":"refunded"}`, nil, domain.ErrValidation, http.StatusBadRequest},
		{"tenant", `{"paymentStatus":"completed"}`, nil, domain.ErrForbidden, http.StatusForbidden},
		{"gateway value", `{"paymentStatus":"bkash"}`, nil, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.result != nil || tt.err != nil {
				svc.On("UpdatePaymentStatus", mock.Anything, id, mock.Anything).Return(tt.result, tt.err).Once()
			}

			router := mux.NewRouter()
			router.HandleFunc("/bookings/{bookingId}/payment-status", NewHandler(svc, nopLogger{}).Handle)

			r := httptest.NewRequest(http.MethodPatch, "/bookings/"+id.String()+"/payment-status", strings.NewReader(tt.body))
			r = r.WithContext(middleware.WithCaller(r.Context(), owner))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
