package register

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldAndRecallRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	customer := env.seedCustomer(t, "Jane")
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 2))
	require.NoError(t, session.AttachCustomer(ctx, customer.ID))
	require.NoError(t, session.SetDiscount(enum.DiscountTypePercentage, dec("5")))
	wantLines := session.Lines()
	wantPricing := session.Pricing()

	order, err := session.Hold(ctx, "table 4")
	require.NoError(t, err)
	assert.Equal(t, "table 4", order.Label)

	// Holding clears the register for the next customer.
	assert.Empty(t, session.Lines())
	assert.Nil(t, session.CustomerID())

	// Another sale happens in between.
	other := env.seedProduct(t, "Gum", "10", 10)
	require.NoError(t, session.AddItem(ctx, other.ID, 1))
	_, err = session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)

	require.NoError(t, session.Recall(ctx, order.ID))

	assert.Equal(t, wantLines, session.Lines())
	assert.Equal(t, wantPricing, session.Pricing())
	require.NotNil(t, session.CustomerID())
	assert.Equal(t, customer.ID, *session.CustomerID())
}

func TestHoldGeneratesLabel(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	order, err := session.Hold(ctx, "   ")
	require.NoError(t, err)
	assert.NotEmpty(t, order.Label)
	assert.Contains(t, order.Label, "Order ")
}

func TestHoldEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())

	_, err := session.Hold(context.Background(), "nothing here")
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestHoldSnapshotIsDeepCopy(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 2))

	order, err := session.Hold(ctx, "snapshot")
	require.NoError(t, err)

	// Rebuild a cart with a different quantity; the held copy must not move.
	require.NoError(t, session.AddItem(ctx, product.ID, 5))
	stored, err := env.held.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestRecallIsConsumeOnce(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	order, err := session.Hold(ctx, "once")
	require.NoError(t, err)

	require.NoError(t, session.Recall(ctx, order.ID))

	// Gone from the list and not recallable again.
	orders, err := session.HeldOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	err = session.Recall(ctx, order.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// The cart recalled on the first attempt is untouched.
	assert.Len(t, session.Lines(), 1)
}

func TestRecallReplacesActiveCart(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	soda := env.seedProduct(t, "Soda", "120", 10)
	gum := env.seedProduct(t, "Gum", "10", 10)

	require.NoError(t, session.AddItem(ctx, soda.ID, 2))
	order, err := session.Hold(ctx, "held")
	require.NoError(t, err)

	require.NoError(t, session.AddItem(ctx, gum.ID, 3))
	require.NoError(t, session.Recall(ctx, order.ID))

	lines := session.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, soda.ID, lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestHeldOrdersListedInCreationOrder(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()
	product := env.seedProduct(t, "Soda", "120", 100)

	for _, label := range []string{"first", "second", "third"} {
		require.NoError(t, session.AddItem(ctx, product.ID, 1))
		_, err := session.Hold(ctx, label)
		require.NoError(t, err)
	}

	orders, err := session.HeldOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "first", orders[0].Label)
	assert.Equal(t, "second", orders[1].Label)
	assert.Equal(t, "third", orders[2].Label)
}

func TestDeleteHeldOrder(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	order, err := session.Hold(ctx, "abandoned")
	require.NoError(t, err)

	require.NoError(t, session.DeleteHeldOrder(ctx, order.ID))
	orders, err := session.HeldOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// Absent ids are a no-op.
	assert.NoError(t, session.DeleteHeldOrder(ctx, uuid.New()))
}

func TestHoldEvents(t *testing.T) {
	env := newTestEnv(t)
	var saved, recalled bool
	session := env.manager(defaultOptions()).Open(env.cashier, env.branch, Events{
		HeldOrderSaved:    func(order *entity.HeldOrder) { saved = true },
		HeldOrderRecalled: func(order *entity.HeldOrder) { recalled = true },
	})
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	order, err := session.Hold(ctx, "evt")
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, session.Recall(ctx, order.ID))
	assert.True(t, recalled)
}

func TestRecallRaceConsumesOrderOnce(t *testing.T) {
	env := newTestEnv(t)
	mgr := env.manager(defaultOptions())
	first := mgr.Open(env.cashier, env.branch, Events{})
	second := mgr.Open(env.cashier, env.branch, Events{})
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, first.AddItem(ctx, product.ID, 1))
	order, err := first.Hold(ctx, "shared")
	require.NoError(t, err)

	// Two registers race to recall the same order.
	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, session := range []*Session{first, second} {
		go func(i int, session *Session) {
			defer wg.Done()
			<-start
			errs[i] = session.Recall(ctx, order.ID)
		}(i, session)
	}
	close(start)
	wg.Wait()

	var wins, misses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperror.ErrNotFound):
			misses++
		default:
			t.Fatalf("unexpected recall error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one register gets the order")
	assert.Equal(t, 1, misses)

	loaded := 0
	for _, session := range []*Session{first, second} {
		if len(session.Lines()) > 0 {
			loaded++
		}
	}
	assert.Equal(t, 1, loaded, "only the winning register holds the lines")

	orders, err := env.held.List(ctx, env.branch.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestClaimIsExclusive(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "120", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	order, err := session.Hold(ctx, "claim")
	require.NoError(t, err)

	claimed, err := env.held.Claim(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, order.ID, claimed.ID)

	again, err := env.held.Claim(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	absent, err := env.held.Claim(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, absent)
}
