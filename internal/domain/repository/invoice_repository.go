package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/pkg/pagination"
)

// InvoiceFilterParams represents filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	From       *time.Time
	To         *time.Time
	CashierID  *uuid.UUID
	CustomerID *uuid.UUID
}

// InvoiceRepository defines the interface for invoice data access.
// Invoices are write-once: Create is the only mutation.
type InvoiceRepository interface {
	// Create assigns the invoice a branch-scoped sequential number using the
	// given prefix and persists it with its items. Number allocation is
	// atomic, so concurrent checkouts on the same branch can never produce
	// duplicate numbers. A failure between allocation and the invoice write
	// may leave a gap in the sequence; numbers are unique, not gapless.
	Create(ctx context.Context, invoice *entity.Invoice, prefix string) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, branchID uuid.UUID, number string) (*entity.Invoice, error)
	List(ctx context.Context, branchID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}
