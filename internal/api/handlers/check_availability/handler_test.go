package check_availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	checkAvailability "github.com/m04kA/HouseRent-BookingService/internal/usecase/check_availability"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*checkAvailability.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/properties/{propertyId}/availability", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReportsConflicts(t *testing.T) {
	uc := &mockUseCase{}
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *checkAvailability.Request) bool {
		return req.PropertyID == "prop-1" && req.StartDate.Equal(day(1)) && req.ExcludeBookingID == nil
	})).Return(&checkAvailability.Response{
		PropertyID: "prop-1",
		StartDate:  day(1),
		EndDate:    day(10),
		Available:  false,
		Conflicts:  []checkAvailability.BlockedPeriod{{StartDate: day(5), EndDate: day(20), Status: "approved"}},
	}, nil)

	rec := serve(NewHandler(uc, nopLogger{}), "/properties/prop-1/availability?startDate=2024-03-01&endDate=2024-03-10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"propertyId":"prop-1","startDate":"2024-03-01","endDate":"2024-03-10","available":false,
		"conflicts":[{"startDate":"2024-03-05","endDate":"2024-03-20","status":"approved"}]
	}`, rec.Body.String())
}

func TestHandle_BadParameters(t *testing.T) {
	tests := []struct {
		name   string
		target string
		ucErr  error
	}{
		{"missing start", "/properties/p/availability?endDate=2024-03-10", nil},
		{"bad exclude id", "/properties/p/availability?startDate=2024-03-01&endDate=2024-03-10&excludeBookingId=42", nil},
		{"reversed range", "/properties/p/availability?startDate=2024-03-10&endDate=2024-03-01", domain.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := serve(NewHandler(uc, nopLogger{}), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
