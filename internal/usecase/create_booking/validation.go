package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

// validateRequest checks the request before any lookup is made
func validateRequest(req *Request, now time.Time) error {
	if strings.TrimSpace(req.PropertyID) == "" {
		return fmt.Errorf("%w: propertyId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if err := domain.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return err
	}

	if domain.DateOnly(req.StartDate).Before(domain.DateOnly(now)) {
		return ErrStartInPast
	}

	if domain.DurationMonths(req.StartDate, req.EndDate) > domain.MaxStayMonths {
		return fmt.Errorf("%w: at most %d months", ErrStayTooLong, domain.MaxStayMonths)
	}

	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: totalAmount", domain.ErrNegativeAmount)
	}

	if req.DepositAmount != nil && req.DepositAmount.IsNegative() {
		return fmt.Errorf("%w: depositAmount", domain.ErrNegativeAmount)
	}

	if req.Message != nil && strings.TrimSpace(*req.Message) == "" {
		return fmt.Errorf("%w: message must not be empty", ErrInvalidInput)
	}

	return nil
}

// authorize allows tenants to book for themselves and admins for anyone
func authorize(req *Request) error {
	if req.Caller.IsAdmin() || req.Caller.ID == req.TenantID {
		return nil
	}
	return ErrAccessDenied
}
