package register

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesLines(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	product := env.seedProduct(t, "Soda", "120", 10)
	ctx := context.Background()

	require.NoError(t, session.AddItem(ctx, product.ID, 2))
	require.NoError(t, session.AddItem(ctx, product.ID, 3))

	lines := session.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "Soda", lines[0].Name)
	assert.True(t, lines[0].UnitPrice.Equal(dec("120")))
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	product := env.seedProduct(t, "Soda", "120", 10)
	ctx := context.Background()

	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	product.Price = dec("150")
	product.Name = "Soda XL"
	require.NoError(t, env.products.Update(ctx, product))

	lines := session.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Soda", lines[0].Name)
	assert.True(t, lines[0].UnitPrice.Equal(dec("120")))
}

func TestAddItemStockBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("out of stock rejected", func(t *testing.T) {
		session := env.open(t, defaultOptions())
		product := env.seedProduct(t, "Empty Shelf", "50", 0)

		err := session.AddItem(ctx, product.ID, 1)
		assert.ErrorIs(t, err, apperror.ErrOutOfStock)
		assert.Empty(t, session.Lines())
	})

	t.Run("merge beyond stock rejected", func(t *testing.T) {
		session := env.open(t, defaultOptions())
		product := env.seedProduct(t, "Scarce", "50", 3)

		require.NoError(t, session.AddItem(ctx, product.ID, 2))
		err := session.AddItem(ctx, product.ID, 2)
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
		assert.Equal(t, 2, cartQuantity(session, product.ID))
	})

	t.Run("oversell allowed when enabled", func(t *testing.T) {
		opts := defaultOptions()
		opts.AllowOversell = true
		session := env.open(t, opts)
		product := env.seedProduct(t, "Backorderable", "50", 0)

		require.NoError(t, session.AddItem(ctx, product.ID, 4))
		assert.Equal(t, 4, cartQuantity(session, product.ID))
	})
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())

	err := session.AddItem(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSetQuantity(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	product := env.seedProduct(t, "Soda", "120", 10)
	ctx := context.Background()

	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	require.NoError(t, session.SetQuantity(ctx, product.ID, 7))
	assert.Equal(t, 7, cartQuantity(session, product.ID))

	// Below 1 behaves like removal.
	require.NoError(t, session.SetQuantity(ctx, product.ID, 0))
	assert.Empty(t, session.Lines())

	err := session.SetQuantity(ctx, product.ID, 2)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSetQuantityBeyondStock(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	product := env.seedProduct(t, "Scarce", "50", 3)
	ctx := context.Background()

	require.NoError(t, session.AddItem(ctx, product.ID, 2))
	err := session.SetQuantity(ctx, product.ID, 5)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 2, cartQuantity(session, product.ID))
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	product := env.seedProduct(t, "Soda", "120", 10)
	ctx := context.Background()

	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	require.NoError(t, session.RemoveItem(uuid.New()))
	assert.Len(t, session.Lines(), 1)

	require.NoError(t, session.RemoveItem(product.ID))
	assert.Empty(t, session.Lines())
}

func TestClearEmptiesCart(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	require.NoError(t, session.AddItem(ctx, env.seedProduct(t, "A", "10", 5).ID, 2))
	require.NoError(t, session.AddItem(ctx, env.seedProduct(t, "B", "20", 5).ID, 1))

	require.NoError(t, session.Clear())
	assert.Empty(t, session.Lines())
}

func TestAttachDetachCustomer(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	customer := env.seedCustomer(t, "Jane")
	ctx := context.Background()

	err := session.AttachCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Nil(t, session.CustomerID())

	require.NoError(t, session.AttachCustomer(ctx, customer.ID))
	require.NotNil(t, session.CustomerID())
	assert.Equal(t, customer.ID, *session.CustomerID())

	session.DetachCustomer()
	assert.Nil(t, session.CustomerID())
}

func TestSetDiscountValidation(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())

	require.NoError(t, session.SetDiscount(enum.DiscountTypePercentage, dec("10")))

	err := session.SetDiscount(enum.DiscountTypePercentage, dec("101"))
	assert.ErrorIs(t, err, apperror.ErrInvalidDiscount)

	// The rejected discount must not stick.
	cfg := session.Pricing()
	assert.True(t, cfg.DiscountValue.Equal(dec("10")))
}

func TestUpdatePricingRejectsInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())

	cfg := session.Pricing()
	cfg.DecimalPlaces = 9
	err := session.UpdatePricing(cfg)
	require.Error(t, err)
	assert.Equal(t, int32(2), session.Pricing().DecimalPlaces)
}

func TestCartChangedEvent(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Soda", "120", 10)

	var snapshots [][]entity.CartLine
	session := env.manager(defaultOptions()).Open(env.cashier, env.branch, Events{
		CartChanged: func(lines []entity.CartLine) {
			snapshots = append(snapshots, lines)
		},
	})

	ctx := context.Background()
	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	require.NoError(t, session.AddItem(ctx, product.ID, 2))

	require.Len(t, snapshots, 2)
	assert.Equal(t, 1, snapshots[0][0].Quantity)
	assert.Equal(t, 3, snapshots[1][0].Quantity)

	// Callbacks receive copies; mutating one must not touch the cart.
	snapshots[1][0].Quantity = 99
	assert.Equal(t, 3, cartQuantity(session, product.ID))
}

func TestPricingEventClampsStrandedFixedDiscount(t *testing.T) {
	env := newTestEnv(t)
	soda := env.seedProduct(t, "Soda", "120", 10)
	chips := env.seedProduct(t, "Chips", "80", 10)

	var summaries []Summary
	session := env.manager(defaultOptions()).Open(env.cashier, env.branch, Events{
		PricingChanged: func(summary Summary) {
			summaries = append(summaries, summary)
		},
	})

	ctx := context.Background()
	require.NoError(t, session.AddItem(ctx, soda.ID, 1))
	require.NoError(t, session.AddItem(ctx, chips.ID, 1))
	require.NoError(t, session.SetDiscount(enum.DiscountTypeFixed, dec("150")))

	// Removing the soda drops the subtotal to 80, below the fixed discount.
	require.NoError(t, session.RemoveItem(soda.ID))

	require.NotEmpty(t, summaries)
	last := summaries[len(summaries)-1]
	assert.True(t, last.Subtotal.Equal(dec("80")), "subtotal %s", last.Subtotal)
	assert.True(t, last.Tax.Equal(dec("12")), "tax %s", last.Tax)
	assert.True(t, last.Discount.Equal(dec("80")), "discount %s", last.Discount)
	assert.True(t, last.Total.Equal(dec("12")), "total %s", last.Total)

	// The stranded discount still blocks the sale until it is corrected.
	_, err := session.Summary()
	assert.ErrorIs(t, err, apperror.ErrInvalidDiscount)
}

func TestManagerGetAndClose(t *testing.T) {
	env := newTestEnv(t)
	mgr := env.manager(defaultOptions())
	session := mgr.Open(env.cashier, env.branch, Events{})

	found, err := mgr.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, found)

	mgr.Close(session.ID)
	_, err = mgr.Get(session.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
