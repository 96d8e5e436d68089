package propertyservice

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Property is the part of the property record the booking engine needs
type Property struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"` // BDT
}

func (p *Property) validate() error {
	if p.OwnerID == "" {
		return errors.New("property has no owner")
	}
	if p.MonthlyPrice.IsNegative() {
		return errors.New("property has a negative monthly price")
	}
	return nil
}
