package check_availability

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	checkAvailability "github.com/m04kA/HouseRent-BookingService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	PropertyID string          `json:"propertyId"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Available  bool            `json:"available"`
	Conflicts  []BlockedPeriod `json:"conflicts"`
}

// BlockedPeriod is an occupied interval
type BlockedPeriod struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// ToUseCaseRequest builds the use case request from path and query parameters
func ToUseCaseRequest(r *http.Request) (*checkAvailability.Request, error) {
	query := r.URL.Query()

	start, err := handlers.ParseDate("startDate", query.Get("startDate"))
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate("endDate", query.Get("endDate"))
	if err != nil {
		return nil, err
	}

	req := &checkAvailability.Request{
		PropertyID: mux.Vars(r)["propertyId"],
		StartDate:  start,
		EndDate:    end,
	}

	if raw := query.Get("excludeBookingId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("excludeBookingId must be a UUID, got %q", raw)
		}
		req.ExcludeBookingID = &id
	}

	return req, nil
}

// FromUseCaseResponse converts the use case response into the HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		PropertyID: resp.PropertyID,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		Available:  resp.Available,
		Conflicts:  make([]BlockedPeriod, len(resp.Conflicts)),
	}
	for i, c := range resp.Conflicts {
		out.Conflicts[i] = BlockedPeriod{
			StartDate: c.StartDate.Format(domain.DateFormat),
			EndDate:   c.EndDate.Format(domain.DateFormat),
			Status:    c.Status,
		}
	}
	return out
}
