package register

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/apperror"
	"go.uber.org/zap"
)

// Options holds the register behavior knobs supplied by configuration
type Options struct {
	AllowOversell     bool
	ClearAfterSale    bool
	LoyaltyEnabled    bool
	PointsPerCurrency decimal.Decimal
}

// Events are the callbacks a session fires after successful operations.
// All fields are optional. Callbacks run outside the session lock with
// copies of the state, so they may safely call back into the session.
type Events struct {
	CartChanged       func(lines []entity.CartLine)
	PricingChanged    func(summary Summary)
	CheckoutSucceeded func(invoice *entity.Invoice)
	CheckoutFailed    func(err error)
	HeldOrderSaved    func(order *entity.HeldOrder)
	HeldOrderRecalled func(order *entity.HeldOrder)
}

// Manager owns the open register sessions and the storage they commit to.
// Multiple sessions (registers) can run in one process; each has independent
// cart state but all share the branch's stock.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	held      repository.HeldOrderRepository
	customers repository.CustomerRepository

	opts   Options
	logger *zap.Logger
}

// NewManager creates a register manager
func NewManager(
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
	held repository.HeldOrderRepository,
	customers repository.CustomerRepository,
	opts Options,
	logger *zap.Logger,
) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		products:  products,
		invoices:  invoices,
		held:      held,
		customers: customers,
		opts:      opts,
		logger:    logger,
	}
}

// Open starts a new register session for a cashier at a branch. The cart is
// empty and pricing starts from the branch defaults.
func (m *Manager) Open(cashier *entity.User, branch *entity.Branch, events Events) *Session {
	s := &Session{
		ID:      uuid.New(),
		branch:  branch,
		cashier: cashier,
		pricing: branch.PricingConfig(),
		events:  events,
		mgr:     m,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("register session opened",
		zap.String("session_id", s.ID.String()),
		zap.String("branch_id", branch.ID.String()),
		zap.String("cashier_id", cashier.ID.String()))
	return s
}

// Get returns an open session by id
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Register session")
	}
	return s, nil
}

// Close discards a session and its in-memory cart
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Session is one register's mutable state: the active cart, its pricing
// configuration and the attached customer. It is the sole owner of that
// state; all access goes through its methods.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	lines      []entity.CartLine
	pricing    entity.PricingConfig
	customerID *uuid.UUID
	committing bool

	branch  *entity.Branch
	cashier *entity.User
	events  Events
	mgr     *Manager
}

// Branch returns the branch this session sells for
func (s *Session) Branch() *entity.Branch { return s.branch }

// Cashier returns the cashier operating this session
func (s *Session) Cashier() *entity.User { return s.cashier }

// Lines returns a copy of the current cart lines
func (s *Session) Lines() []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CloneLines(s.lines)
}

// Pricing returns the session's current pricing configuration
func (s *Session) Pricing() entity.PricingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing
}

// CustomerID returns the attached customer, if any
func (s *Session) CustomerID() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customerID == nil {
		return nil
	}
	id := *s.customerID
	return &id
}

// Summary computes the pricing summary for the current cart
func (s *Session) Summary() (Summary, error) {
	s.mu.Lock()
	lines := entity.CloneLines(s.lines)
	cfg := s.pricing
	s.mu.Unlock()
	return ComputeSummary(lines, cfg)
}

// AddItem adds a product to the cart, merging into an existing line. The
// product's name and price are snapshotted so later edits to the product do
// not change the open cart.
func (s *Session) AddItem(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 1 {
		return apperror.NewBadRequestError("Quantity must be at least 1")
	}

	product, err := s.mgr.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	return s.mutate(func() error {
		if product.Stock <= 0 && !s.mgr.opts.AllowOversell {
			return apperror.NewOutOfStockError(product.Name)
		}

		for i := range s.lines {
			if s.lines[i].ProductID == productID {
				next := s.lines[i].Quantity + qty
				if next > product.Stock && !s.mgr.opts.AllowOversell {
					return apperror.NewInsufficientStockError(product.Name, product.Stock)
				}
				s.lines[i].Quantity = next
				return nil
			}
		}

		if qty > product.Stock && !s.mgr.opts.AllowOversell {
			return apperror.NewInsufficientStockError(product.Name, product.Stock)
		}
		s.lines = append(s.lines, entity.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			TaxExempt: product.TaxExempt,
		})
		return nil
	})
}

// SetQuantity sets a line's quantity directly. A quantity below 1 removes
// the line, matching the decrement-to-zero gesture on the register.
func (s *Session) SetQuantity(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 1 {
		return s.RemoveItem(productID)
	}

	product, err := s.mgr.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	return s.mutate(func() error {
		for i := range s.lines {
			if s.lines[i].ProductID != productID {
				continue
			}
			if qty > product.Stock && !s.mgr.opts.AllowOversell {
				return apperror.NewInsufficientStockError(product.Name, product.Stock)
			}
			s.lines[i].Quantity = qty
			return nil
		}
		return apperror.NewNotFoundError("Cart line")
	})
}

// RemoveItem removes a line from the cart; removing an absent product is not
// an error.
func (s *Session) RemoveItem(productID uuid.UUID) error {
	return s.mutate(func() error {
		for i := range s.lines {
			if s.lines[i].ProductID == productID {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
				break
			}
		}
		return nil
	})
}

// Clear empties the cart unconditionally
func (s *Session) Clear() error {
	return s.mutate(func() error {
		s.lines = nil
		return nil
	})
}

// AttachCustomer links a loyalty customer to the session for the next sale
func (s *Session) AttachCustomer(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.mgr.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return apperror.ErrCheckoutInProgress
	}
	id := customer.ID
	s.customerID = &id
	return nil
}

// DetachCustomer clears the attached customer
func (s *Session) DetachCustomer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = nil
}

// SetDiscount applies a cart-level discount. Percentage discounts above 100
// are rejected here; a fixed discount exceeding the subtotal is rejected
// when the summary is computed.
func (s *Session) SetDiscount(discountType enum.DiscountType, value decimal.Decimal) error {
	return s.mutate(func() error {
		cfg := s.pricing
		cfg.DiscountType = discountType
		cfg.DiscountValue = value
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.pricing = cfg
		return nil
	})
}

// UpdatePricing replaces the session's pricing configuration, e.g. after a
// branch settings change. Rejected configurations leave the session untouched.
func (s *Session) UpdatePricing(cfg entity.PricingConfig) error {
	return s.mutate(func() error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.pricing = cfg
		return nil
	})
}

// mutate runs fn under the session lock, rejecting mutation while a checkout
// is committing, and fires the cart/pricing callbacks on success.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return apperror.ErrCheckoutInProgress
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	lines := entity.CloneLines(s.lines)
	cfg := s.pricing
	s.mu.Unlock()

	s.notify(lines, cfg)
	return nil
}

func (s *Session) notify(lines []entity.CartLine, cfg entity.PricingConfig) {
	if s.events.CartChanged != nil {
		s.events.CartChanged(lines)
	}
	if s.events.PricingChanged == nil {
		return
	}

	summary, err := ComputeSummary(lines, cfg)
	if err != nil {
		// A mutation can strand a fixed discount above the new subtotal.
		// The event still fires, with the discount clamped to the subtotal;
		// Summary and Checkout keep rejecting until the discount is fixed.
		summary, err = ComputeSummary(lines, clampDiscount(lines, cfg))
		if err != nil {
			return
		}
	}
	s.events.PricingChanged(summary)
}

// clampDiscount caps a fixed discount at the cart subtotal
func clampDiscount(lines []entity.CartLine, cfg entity.PricingConfig) entity.PricingConfig {
	if cfg.DiscountType != enum.DiscountTypeFixed {
		return cfg
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	if cfg.DiscountValue.GreaterThan(subtotal) {
		cfg.DiscountValue = subtotal
	}
	return cfg
}
