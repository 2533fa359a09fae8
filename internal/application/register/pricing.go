package register

import (
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/pkg/apperror"
)

var hundred = decimal.NewFromInt(100)

// Summary is the derived pricing breakdown of a cart. It is recomputed from
// the lines and config on every mutation, never cached.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeSummary derives subtotal, tax, discount and total from the cart
// lines and pricing configuration. It is a pure function: identical inputs
// produce identical output, and line order does not matter.
//
// Arithmetic runs at full precision; the returned fields are rounded to
// config.DecimalPlaces.
//
// Tax follows three mutually exclusive shapes:
//   - per-item: each non-exempt line is taxed additively at the global rate;
//   - tax-included: the subtotal already contains tax, which is backed out
//     as subtotal - subtotal/(1+rate) and not added to the total again;
//   - additive: subtotal * rate.
func ComputeSummary(lines []entity.CartLine, cfg entity.PricingConfig) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	zero := Summary{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}
	if len(lines) == 0 {
		return zero, nil
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	rate := cfg.TaxRate.Div(hundred)
	tax := decimal.Zero
	if cfg.TaxEnabled && rate.IsPositive() {
		switch {
		case cfg.ApplyTaxPerItem:
			for _, line := range lines {
				if line.TaxExempt {
					continue
				}
				tax = tax.Add(line.Subtotal().Mul(rate))
			}
		case cfg.TaxIncludedInPrice:
			// Reverse VAT: extract the tax already embedded in the prices.
			tax = subtotal.Sub(subtotal.Div(decimal.NewFromInt(1).Add(rate)))
		default:
			tax = subtotal.Mul(rate)
		}
	}

	var discount decimal.Decimal
	switch cfg.DiscountType {
	case enum.DiscountTypeFixed:
		discount = cfg.DiscountValue
		if discount.GreaterThan(subtotal) {
			return Summary{}, apperror.ErrInvalidDiscount
		}
	default:
		discount = subtotal.Mul(cfg.DiscountValue).Div(hundred)
	}

	var total decimal.Decimal
	if cfg.TaxIncludedInPrice && !cfg.ApplyTaxPerItem {
		// Tax already lives inside the subtotal; adding it would double-count.
		total = subtotal.Sub(discount)
	} else {
		total = subtotal.Add(tax).Sub(discount)
	}

	places := cfg.DecimalPlaces
	return Summary{
		Subtotal: subtotal.Round(places),
		Tax:      tax.Round(places),
		Discount: discount.Round(places),
		Total:    total.Round(places),
	}, nil
}
