package register

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/pkg/apperror"
	"go.uber.org/zap"
)

// Payment describes how the sale is being paid
type Payment struct {
	Method   enum.PaymentMethod
	Tendered decimal.Decimal
}

// Checkout validates the cart and payment, then commits the sale: invoice
// write, stock decrement, loyalty accrual, cart clear.
//
// Validation is synchronous and side-effect free; any rejection leaves the
// session exactly as it was. The commit sequence is best-effort sequential
// against external storage: once the invoice is persisted, a later failure
// surfaces as *apperror.PartialCommitError and is never rolled back or
// retried automatically (a retry could decrement stock twice). The operator
// reconciles manually using the invoice number in the error.
//
// A single-flight latch guards the whole operation: a second Checkout (or
// any cart mutation) while one commit is in flight fails with
// ErrCheckoutInProgress, so a duplicate button press cannot create two
// invoices from one cart.
func (s *Session) Checkout(ctx context.Context, payment Payment) (*entity.Invoice, error) {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return nil, apperror.ErrCheckoutInProgress
	}

	// Validating: cheap checks, no partial effects, freely retryable.
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return nil, s.fail(apperror.ErrEmptyCart)
	}
	if !s.cashier.Can(entity.CapabilityCheckout) {
		s.mu.Unlock()
		return nil, s.fail(apperror.NewAppError(403, apperror.KindForbidden, "Cashier is not allowed to complete sales"))
	}

	summary, err := ComputeSummary(s.lines, s.pricing)
	if err != nil {
		s.mu.Unlock()
		return nil, s.fail(err)
	}
	if payment.Method.RequiresTender() && payment.Tendered.LessThan(summary.Total) {
		s.mu.Unlock()
		return nil, s.fail(apperror.ErrInsufficientPayment)
	}

	// Committing: freeze the cart and snapshot everything the commit needs.
	s.committing = true
	lines := entity.CloneLines(s.lines)
	cfg := s.pricing
	var customerID *uuid.UUID
	if s.customerID != nil {
		id := *s.customerID
		customerID = &id
	}
	s.mu.Unlock()

	invoice, err := s.commit(ctx, lines, cfg, summary, payment, customerID)

	s.mu.Lock()
	s.committing = false
	cleared := false
	if err == nil && s.mgr.opts.ClearAfterSale {
		s.lines = nil
		s.customerID = nil
		cleared = true
	}
	remaining := entity.CloneLines(s.lines)
	s.mu.Unlock()

	if err != nil {
		s.mgr.logger.Error("checkout failed",
			zap.String("session_id", s.ID.String()),
			zap.Error(err))
		if s.events.CheckoutFailed != nil {
			s.events.CheckoutFailed(err)
		}
		return invoice, err
	}

	s.mgr.logger.Info("checkout completed",
		zap.String("session_id", s.ID.String()),
		zap.String("invoice_no", invoice.Number),
		zap.String("total", invoice.Total.String()))

	if cleared {
		s.notify(remaining, cfg)
	}
	if s.events.CheckoutSucceeded != nil {
		s.events.CheckoutSucceeded(invoice)
	}
	return invoice, nil
}

// commit runs the persistence sequence. The invoice write goes first and
// must complete before stock is touched, so an invoice is never lost after
// stock has already been adjusted.
func (s *Session) commit(
	ctx context.Context,
	lines []entity.CartLine,
	cfg entity.PricingConfig,
	summary Summary,
	payment Payment,
	customerID *uuid.UUID,
) (*entity.Invoice, error) {
	change := decimal.Zero
	if payment.Method.RequiresTender() {
		change = payment.Tendered.Sub(summary.Total)
	}

	items := make([]entity.InvoiceItem, len(lines))
	for i, line := range lines {
		items[i] = entity.InvoiceItem{
			ProductID:    line.ProductID,
			Name:         line.Name,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineSubtotal: line.Subtotal().Round(cfg.DecimalPlaces),
		}
	}

	invoice := &entity.Invoice{
		ID:             uuid.New(),
		BranchID:       s.branch.ID,
		CashierID:      s.cashier.ID,
		CustomerID:     customerID,
		Subtotal:       summary.Subtotal,
		Tax:            summary.Tax,
		Discount:       summary.Discount,
		Total:          summary.Total,
		PaymentMethod:  payment.Method,
		AmountTendered: payment.Tendered,
		Change:         change,
		Items:          items,
	}

	// Step 1+2: number allocation and invoice write, atomic at the storage
	// boundary. A failure here leaves no external state behind.
	if err := s.mgr.invoices.Create(ctx, invoice, s.branch.InvoicePrefix); err != nil {
		return nil, err
	}

	// Step 3: relative stock decrement, clamped at zero by the repository.
	decrements := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		decrements[line.ProductID] = -line.Quantity
	}
	if err := s.mgr.products.AdjustStockBatch(ctx, decrements); err != nil {
		return invoice, &apperror.PartialCommitError{Step: "stock", InvoiceNo: invoice.Number, Err: err}
	}

	// Step 4: loyalty accrual. Zero points is a no-op, including the history write.
	if customerID != nil && s.mgr.opts.LoyaltyEnabled {
		points := summary.Total.Mul(s.mgr.opts.PointsPerCurrency).Floor().IntPart()
		if points > 0 {
			if err := s.mgr.customers.AccruePoints(ctx, *customerID, points, invoice.Number, summary.Total); err != nil {
				return invoice, &apperror.PartialCommitError{Step: "points", InvoiceNo: invoice.Number, Err: err}
			}
		}
	}

	return invoice, nil
}

func (s *Session) fail(err error) error {
	if s.events.CheckoutFailed != nil {
		s.events.CheckoutFailed(err)
	}
	return err
}
