package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/pkg/apperror"
)

// CartLine is one product + quantity entry in an active cart. Name and price
// are snapshotted at add time so later product edits do not retroactively
// change an open cart.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	TaxExempt bool            `json:"tax_exempt"`
}

// Subtotal returns quantity times the snapshotted unit price at full precision
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CloneLines deep-copies a line list so held-order snapshots are not aliased
// to the live cart.
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// PricingConfig holds the tax and discount settings a summary is computed
// against. It is read-only to the pricing engine; negative or out-of-range
// values are rejected here at the configuration boundary.
type PricingConfig struct {
	Currency           string            `json:"currency"`
	DecimalPlaces      int32             `json:"decimal_places"`
	TaxEnabled         bool              `json:"tax_enabled"`
	TaxRate            decimal.Decimal   `json:"tax_rate"` // percent, e.g. 15 for 15%
	TaxIncludedInPrice bool              `json:"tax_included_in_price"`
	ApplyTaxPerItem    bool              `json:"apply_tax_per_item"`
	DiscountType       enum.DiscountType `json:"discount_type"`
	DiscountValue      decimal.Decimal   `json:"discount_value"`
}

// Validate rejects configurations the pricing engine must never see
func (c *PricingConfig) Validate() error {
	if c.DecimalPlaces < 0 || c.DecimalPlaces > 6 {
		return apperror.NewBadRequestError("Decimal places must be between 0 and 6")
	}
	if c.TaxRate.IsNegative() {
		return apperror.NewBadRequestError("Tax rate cannot be negative")
	}
	if c.DiscountValue.IsNegative() {
		return apperror.ErrInvalidDiscount
	}
	if c.DiscountType == enum.DiscountTypePercentage && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.ErrInvalidDiscount
	}
	return nil
}
