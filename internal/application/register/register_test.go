package register

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/internal/infrastructure/docstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEnv wires a register manager to the in-memory document store backend
type testEnv struct {
	store     *docstore.MemoryStore
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	held      repository.HeldOrderRepository
	customers repository.CustomerRepository
	branch    *entity.Branch
	cashier   *entity.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := docstore.NewMemoryStore()
	branch := &entity.Branch{
		ID:            uuid.New(),
		Name:          "Main Branch",
		InvoicePrefix: "INV-",
		Currency:      "KES",
		DecimalPlaces: 2,
		TaxEnabled:    true,
		TaxRate:       dec("15"),
	}
	cashier := &entity.User{
		ID:           uuid.New(),
		BranchID:     branch.ID,
		Name:         "Cashier",
		Email:        "cashier@example.com",
		Capabilities: []string{entity.CapabilityCheckout},
	}

	return &testEnv{
		store:     store,
		products:  docstore.NewProductRepository(store, branch.ID),
		invoices:  docstore.NewInvoiceRepository(store, branch.ID),
		held:      docstore.NewHeldOrderRepository(store, branch.ID),
		customers: docstore.NewCustomerRepository(store),
		branch:    branch,
		cashier:   cashier,
	}
}

func (e *testEnv) manager(opts Options) *Manager {
	return NewManager(e.products, e.invoices, e.held, e.customers, opts, nil)
}

func (e *testEnv) open(t *testing.T, opts Options) *Session {
	t.Helper()
	return e.manager(opts).Open(e.cashier, e.branch, Events{})
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		BranchID: e.branch.ID,
		Name:     name,
		Barcode:  "BC-" + uuid.New().String()[:8],
		Price:    dec(price),
		Stock:    stock,
	}
	require.NoError(t, e.products.Create(context.Background(), product))
	return product
}

func (e *testEnv) seedCustomer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	phone := "0700-000000"
	customer := &entity.Customer{
		Name:       name,
		Phone:      &phone,
		TotalSpent: decimal.Zero,
	}
	require.NoError(t, e.customers.Create(context.Background(), customer))
	return customer
}

func defaultOptions() Options {
	return Options{
		ClearAfterSale:    true,
		LoyaltyEnabled:    true,
		PointsPerCurrency: dec("0.01"),
	}
}

func cartQuantity(s *Session, productID uuid.UUID) int {
	for _, l := range s.Lines() {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func fixedDiscount(v string) (enum.DiscountType, decimal.Decimal) {
	return enum.DiscountTypeFixed, dec(v)
}
