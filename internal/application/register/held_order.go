package register

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/pkg/apperror"
	"go.uber.org/zap"
)

// Hold suspends the current cart as a named held order and clears the
// register for the next customer. The snapshot is a deep copy; later cart
// mutations do not affect it. An empty label gets a generated one.
func (s *Session) Hold(ctx context.Context, label string) (*entity.HeldOrder, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Order %s", time.Now().Format("15:04:05"))
	}

	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return nil, apperror.ErrCheckoutInProgress
	}
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return nil, apperror.ErrEmptyCart
	}

	order := &entity.HeldOrder{
		BranchID:  s.branch.ID,
		CashierID: s.cashier.ID,
		Label:     label,
		Items:     entity.CloneLines(s.lines),
		Pricing:   s.pricing,
	}
	if s.customerID != nil {
		id := *s.customerID
		order.CustomerID = &id
	}

	if err := s.mgr.held.Create(ctx, order); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.lines = nil
	s.customerID = nil
	lines := entity.CloneLines(s.lines)
	cfg := s.pricing
	s.mu.Unlock()

	s.mgr.logger.Info("order held",
		zap.String("session_id", s.ID.String()),
		zap.String("held_order_id", order.ID.String()),
		zap.String("label", order.Label))

	s.notify(lines, cfg)
	if s.events.HeldOrderSaved != nil {
		s.events.HeldOrderSaved(order)
	}
	return order, nil
}

// HeldOrders lists the branch's suspended orders
func (s *Session) HeldOrders(ctx context.Context) ([]entity.HeldOrder, error) {
	return s.mgr.held.List(ctx, s.branch.ID)
}

// Recall loads a held order back into the cart, replacing whatever is
// active, and removes it from storage. Recall is consume-once: the order is
// claimed through the repository's atomic Claim, so when two registers race
// for the same order exactly one gets it and the other sees NotFound.
// Callers are expected to confirm with the user before recalling over a
// non-empty cart; the session does not prompt.
func (s *Session) Recall(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return apperror.ErrCheckoutInProgress
	}

	order, err := s.mgr.held.Claim(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if order == nil {
		s.mu.Unlock()
		return apperror.NewNotFoundError("Held order")
	}

	s.lines = entity.CloneLines(order.Items)
	s.pricing = order.Pricing
	s.customerID = nil
	if order.CustomerID != nil {
		cid := *order.CustomerID
		s.customerID = &cid
	}
	lines := entity.CloneLines(s.lines)
	cfg := s.pricing
	s.mu.Unlock()

	s.mgr.logger.Info("order recalled",
		zap.String("session_id", s.ID.String()),
		zap.String("held_order_id", order.ID.String()))

	s.notify(lines, cfg)
	if s.events.HeldOrderRecalled != nil {
		s.events.HeldOrderRecalled(order)
	}
	return nil
}

// DeleteHeldOrder discards a held order without recalling it; deleting an
// absent id is a no-op.
func (s *Session) DeleteHeldOrder(ctx context.Context, id uuid.UUID) error {
	return s.mgr.held.Delete(ctx, id)
}
