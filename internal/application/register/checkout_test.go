package register

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCashSale(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	chairs := env.seedProduct(t, "Office Chair", "1500", 10)
	desk := env.seedProduct(t, "Standing Desk", "4500", 5)
	require.NoError(t, session.AddItem(ctx, chairs.ID, 3))
	require.NoError(t, session.AddItem(ctx, desk.ID, 1))

	invoice, err := session.Checkout(ctx, Payment{
		Method:   enum.PaymentMethodCash,
		Tendered: dec("10350"),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", invoice.Number)
	assert.True(t, invoice.Subtotal.Equal(dec("9000")), "subtotal %s", invoice.Subtotal)
	assert.True(t, invoice.Tax.Equal(dec("1350")), "tax %s", invoice.Tax)
	assert.True(t, invoice.Total.Equal(dec("10350")), "total %s", invoice.Total)
	assert.True(t, invoice.Change.IsZero(), "change %s", invoice.Change)
	require.Len(t, invoice.Items, 2)

	// Cart is cleared for the next customer.
	assert.Empty(t, session.Lines())

	// Stock reflects the sale.
	got, err := env.products.GetByID(ctx, chairs.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	// The invoice is retrievable by number.
	stored, err := env.invoices.GetByNumber(ctx, env.branch.ID, invoice.Number)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Total.Equal(invoice.Total))
}

func TestCheckoutChangeDue(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	invoice, err := session.Checkout(ctx, Payment{
		Method:   enum.PaymentMethodCash,
		Tendered: dec("200"),
	})
	require.NoError(t, err)

	// 100 + 15% tax = 115, tendered 200.
	assert.True(t, invoice.Total.Equal(dec("115")))
	assert.True(t, invoice.Change.Equal(dec("85")), "change %s", invoice.Change)
}

func TestCheckoutInsufficientTender(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	chairs := env.seedProduct(t, "Office Chair", "1500", 10)
	desk := env.seedProduct(t, "Standing Desk", "4500", 5)
	require.NoError(t, session.AddItem(ctx, chairs.ID, 3))
	require.NoError(t, session.AddItem(ctx, desk.ID, 1))

	_, err := session.Checkout(ctx, Payment{
		Method:   enum.PaymentMethodCash,
		Tendered: dec("10000"),
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientPayment)

	// The cart survives a rejected checkout intact.
	assert.Len(t, session.Lines(), 2)
	got, err := env.products.GetByID(ctx, chairs.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
}

func TestCheckoutCardNeedsNoTender(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	invoice, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)
	assert.True(t, invoice.Change.IsZero())
	assert.Equal(t, enum.PaymentMethodCard, invoice.PaymentMethod)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())

	_, err := session.Checkout(context.Background(), Payment{Method: enum.PaymentMethodCash})
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestCheckoutRequiresCapability(t *testing.T) {
	env := newTestEnv(t)
	env.cashier.Capabilities = []string{entity.CapabilityManageProducts}
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
}

func TestCheckoutInvoiceNumbersAreSequential(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()
	product := env.seedProduct(t, "Soda", "100", 100)

	for i, want := range []string{"INV-000001", "INV-000002", "INV-000003"} {
		require.NoError(t, session.AddItem(ctx, product.ID, 1))
		invoice, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
		require.NoError(t, err, "sale %d", i+1)
		assert.Equal(t, want, invoice.Number)
	}
}

func TestCheckoutStockClampedAtZero(t *testing.T) {
	env := newTestEnv(t)
	opts := defaultOptions()
	opts.AllowOversell = true
	session := env.open(t, opts)
	ctx := context.Background()

	product := env.seedProduct(t, "Last Ones", "100", 2)
	require.NoError(t, session.AddItem(ctx, product.ID, 5))

	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)

	got, err := env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestCheckoutLoyaltyAccrual(t *testing.T) {
	env := newTestEnv(t)
	opts := defaultOptions()
	opts.PointsPerCurrency = dec("0.01")
	session := env.open(t, opts)
	customer := env.seedCustomer(t, "Jane")
	ctx := context.Background()

	product := env.seedProduct(t, "Standing Desk", "4500", 5)
	require.NoError(t, session.AddItem(ctx, product.ID, 2))
	require.NoError(t, session.AttachCustomer(ctx, customer.ID))

	invoice, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)

	// 9000 + 1350 tax = 10350; at 0.01 points per unit that is 103 points.
	got, err := env.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(103), got.Points)
	assert.True(t, got.TotalSpent.Equal(dec("10350")))

	history, err := env.customers.PointsHistory(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, invoice.Number, history[0].InvoiceNo)
	assert.Equal(t, int64(103), history[0].Points)

	// ClearAfterSale also detaches the customer.
	assert.Nil(t, session.CustomerID())
}

func TestCheckoutZeroPointsSkipsHistory(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	customer := env.seedCustomer(t, "Jane")
	ctx := context.Background()

	product := env.seedProduct(t, "Gum", "10", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	require.NoError(t, session.AttachCustomer(ctx, customer.ID))

	// 10 + 1.50 tax = 11.50; floor(11.50 * 0.01) = 0 points.
	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)

	got, err := env.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Points)

	history, err := env.customers.PointsHistory(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCheckoutLoyaltyDisabled(t *testing.T) {
	env := newTestEnv(t)
	opts := defaultOptions()
	opts.LoyaltyEnabled = false
	session := env.open(t, opts)
	customer := env.seedCustomer(t, "Jane")
	ctx := context.Background()

	product := env.seedProduct(t, "Standing Desk", "4500", 5)
	require.NoError(t, session.AddItem(ctx, product.ID, 2))
	require.NoError(t, session.AttachCustomer(ctx, customer.ID))

	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)

	got, err := env.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Points)
}

func TestCheckoutKeepCartWhenClearDisabled(t *testing.T) {
	env := newTestEnv(t)
	opts := defaultOptions()
	opts.ClearAfterSale = false
	session := env.open(t, opts)
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)
	assert.Len(t, session.Lines(), 1)
}

// gatedInvoiceRepo blocks Create until released, simulating a slow storage
// write so a second checkout can be attempted mid-commit.
type gatedInvoiceRepo struct {
	repository.InvoiceRepository
	entered chan struct{}
	release chan struct{}
}

func (r *gatedInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice, prefix string) error {
	close(r.entered)
	<-r.release
	return r.InvoiceRepository.Create(ctx, invoice, prefix)
}

func TestCheckoutSingleFlight(t *testing.T) {
	env := newTestEnv(t)
	gate := &gatedInvoiceRepo{
		InvoiceRepository: env.invoices,
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	mgr := NewManager(env.products, gate, env.held, env.customers, defaultOptions(), nil)
	session := mgr.Open(env.cashier, env.branch, Events{})
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	done := make(chan error, 1)
	go func() {
		_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
		done <- err
	}()
	<-gate.entered

	// A second press while the first commit is in flight is rejected, and so
	// is any cart mutation.
	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	assert.ErrorIs(t, err, apperror.ErrCheckoutInProgress)
	assert.ErrorIs(t, session.Clear(), apperror.ErrCheckoutInProgress)

	close(gate.release)
	require.NoError(t, <-done)

	// Exactly one invoice was written.
	invoices, total, err := env.invoices.List(ctx, env.branch.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, invoices, 1)
}

// failingStockRepo fails every stock adjustment, simulating storage loss
// after the invoice write.
type failingStockRepo struct {
	repository.ProductRepository
}

func (r *failingStockRepo) AdjustStockBatch(ctx context.Context, deltas map[uuid.UUID]int) error {
	return errors.New("storage unavailable")
}

func TestCheckoutPartialCommit(t *testing.T) {
	env := newTestEnv(t)
	mgr := NewManager(&failingStockRepo{env.products}, env.invoices, env.held, env.customers, defaultOptions(), nil)
	session := mgr.Open(env.cashier, env.branch, Events{})
	ctx := context.Background()

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))

	invoice, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})

	var partial *apperror.PartialCommitError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "stock", partial.Step)
	assert.Equal(t, "INV-000001", partial.InvoiceNo)

	// The invoice survived; the failure is reported, not rolled back.
	require.NotNil(t, invoice)
	stored, storeErr := env.invoices.GetByNumber(ctx, env.branch.ID, invoice.Number)
	require.NoError(t, storeErr)
	require.NotNil(t, stored)

	// The cart is not cleared on a failed commit.
	assert.Len(t, session.Lines(), 1)

	// The session is usable again after the failure.
	assert.NoError(t, session.Clear())
}

func TestCheckoutEvents(t *testing.T) {
	env := newTestEnv(t)
	var succeeded *entity.Invoice
	var failed error
	session := env.manager(defaultOptions()).Open(env.cashier, env.branch, Events{
		CheckoutSucceeded: func(invoice *entity.Invoice) { succeeded = invoice },
		CheckoutFailed:    func(err error) { failed = err },
	})
	ctx := context.Background()

	_, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCash})
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
	assert.ErrorIs(t, failed, apperror.ErrEmptyCart)

	product := env.seedProduct(t, "Soda", "100", 10)
	require.NoError(t, session.AddItem(ctx, product.ID, 1))
	invoice, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)
	require.NotNil(t, succeeded)
	assert.Equal(t, invoice.Number, succeeded.Number)
}

func TestCheckoutWithDiscount(t *testing.T) {
	env := newTestEnv(t)
	session := env.open(t, defaultOptions())
	ctx := context.Background()

	product := env.seedProduct(t, "Standing Desk", "4500", 5)
	require.NoError(t, session.AddItem(ctx, product.ID, 2))
	require.NoError(t, session.SetDiscount(enum.DiscountTypePercentage, dec("10")))

	invoice, err := session.Checkout(ctx, Payment{Method: enum.PaymentMethodCard})
	require.NoError(t, err)

	// 9000 + 1350 tax - 900 discount = 9450.
	assert.True(t, invoice.Discount.Equal(dec("900")), "discount %s", invoice.Discount)
	assert.True(t, invoice.Total.Equal(dec("9450")), "total %s", invoice.Total)
}
