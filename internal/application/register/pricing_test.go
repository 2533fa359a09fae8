package register

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(price string, qty int) entity.CartLine {
	return entity.CartLine{
		ProductID: uuid.New(),
		Name:      "item",
		UnitPrice: dec(price),
		Quantity:  qty,
	}
}

func baseConfig() entity.PricingConfig {
	return entity.PricingConfig{
		Currency:      "KES",
		DecimalPlaces: 2,
		TaxEnabled:    true,
		TaxRate:       dec("15"),
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: decimal.Zero,
	}
}

func TestComputeSummaryAdditiveTax(t *testing.T) {
	cfg := baseConfig()
	lines := []entity.CartLine{line("3500", 2), line("2000", 1)}

	summary, err := ComputeSummary(lines, cfg)
	require.NoError(t, err)

	assert.True(t, dec("9000").Equal(summary.Subtotal), "subtotal %s", summary.Subtotal)
	assert.True(t, dec("1350").Equal(summary.Tax), "tax %s", summary.Tax)
	assert.True(t, decimal.Zero.Equal(summary.Discount))
	assert.True(t, dec("10350").Equal(summary.Total), "total %s", summary.Total)
}

func TestComputeSummaryTaxIncluded(t *testing.T) {
	cfg := baseConfig()
	cfg.TaxIncludedInPrice = true
	lines := []entity.CartLine{line("115", 1)}

	summary, err := ComputeSummary(lines, cfg)
	require.NoError(t, err)

	// 115 - 115/1.15 = 15; the total does not add the tax again.
	assert.True(t, dec("115").Equal(summary.Subtotal))
	assert.True(t, dec("15").Equal(summary.Tax), "tax %s", summary.Tax)
	assert.True(t, dec("115").Equal(summary.Total), "total %s", summary.Total)
}

func TestComputeSummaryPerItemTax(t *testing.T) {
	cfg := baseConfig()
	cfg.ApplyTaxPerItem = true

	exempt := line("100", 1)
	exempt.TaxExempt = true
	lines := []entity.CartLine{line("200", 2), exempt}

	summary, err := ComputeSummary(lines, cfg)
	require.NoError(t, err)

	// Only the non-exempt 400 is taxed.
	assert.True(t, dec("500").Equal(summary.Subtotal))
	assert.True(t, dec("60").Equal(summary.Tax), "tax %s", summary.Tax)
	assert.True(t, dec("560").Equal(summary.Total))
}

func TestComputeSummaryTaxDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.TaxEnabled = false

	summary, err := ComputeSummary([]entity.CartLine{line("100", 3)}, cfg)
	require.NoError(t, err)

	assert.True(t, decimal.Zero.Equal(summary.Tax))
	assert.True(t, dec("300").Equal(summary.Total))
}

func TestComputeSummaryDiscounts(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		cfg := baseConfig()
		cfg.TaxEnabled = false
		cfg.DiscountValue = dec("10")

		summary, err := ComputeSummary([]entity.CartLine{line("1000", 1)}, cfg)
		require.NoError(t, err)
		assert.True(t, dec("100").Equal(summary.Discount))
		assert.True(t, dec("900").Equal(summary.Total))
	})

	t.Run("fixed", func(t *testing.T) {
		cfg := baseConfig()
		cfg.TaxEnabled = false
		cfg.DiscountType = enum.DiscountTypeFixed
		cfg.DiscountValue = dec("250")

		summary, err := ComputeSummary([]entity.CartLine{line("1000", 1)}, cfg)
		require.NoError(t, err)
		assert.True(t, dec("250").Equal(summary.Discount))
		assert.True(t, dec("750").Equal(summary.Total))
	})

	t.Run("percentage above 100 rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DiscountValue = dec("150")

		_, err := ComputeSummary([]entity.CartLine{line("1000", 1)}, cfg)
		assert.ErrorIs(t, err, apperror.ErrInvalidDiscount)
	})

	t.Run("fixed above subtotal rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DiscountType = enum.DiscountTypeFixed
		cfg.DiscountValue = dec("1001")

		_, err := ComputeSummary([]entity.CartLine{line("1000", 1)}, cfg)
		assert.ErrorIs(t, err, apperror.ErrInvalidDiscount)
	})

	t.Run("negative rejected at config boundary", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DiscountValue = dec("-5")

		_, err := ComputeSummary([]entity.CartLine{line("1000", 1)}, cfg)
		assert.ErrorIs(t, err, apperror.ErrInvalidDiscount)
	})
}

func TestComputeSummaryEmptyCart(t *testing.T) {
	summary, err := ComputeSummary(nil, baseConfig())
	require.NoError(t, err)

	assert.True(t, summary.Subtotal.IsZero())
	assert.True(t, summary.Tax.IsZero())
	assert.True(t, summary.Discount.IsZero())
	assert.True(t, summary.Total.IsZero())
}

func TestComputeSummaryDeterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.DiscountValue = dec("5")
	a := line("19.99", 3)
	b := line("0.75", 7)
	c := line("1200", 1)

	first, err := ComputeSummary([]entity.CartLine{a, b, c}, cfg)
	require.NoError(t, err)
	second, err := ComputeSummary([]entity.CartLine{a, b, c}, cfg)
	require.NoError(t, err)
	reordered, err := ComputeSummary([]entity.CartLine{c, a, b}, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.Subtotal.Equal(reordered.Subtotal))
	assert.True(t, first.Tax.Equal(reordered.Tax))
	assert.True(t, first.Discount.Equal(reordered.Discount))
	assert.True(t, first.Total.Equal(reordered.Total))
}

func TestComputeSummaryRoundsOnlyAtBoundary(t *testing.T) {
	cfg := baseConfig()
	cfg.TaxEnabled = false

	// 3 x 0.333 = 0.999; rounding per line would give 0.99.
	summary, err := ComputeSummary([]entity.CartLine{line("0.333", 3)}, cfg)
	require.NoError(t, err)
	assert.True(t, dec("1.00").Equal(summary.Subtotal), "subtotal %s", summary.Subtotal)
}
