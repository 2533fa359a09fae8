package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/pkg/pagination"
)

// ProductFilterParams represents filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
}

// ProductRepository defines the interface for product data access.
// Stock adjustments are relative ("stock = stock + delta") and clamped at
// zero at the storage layer, never a compute-then-overwrite of a stale read.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, branchID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)

	// AdjustStock applies a relative stock change, floored at zero.
	// Returns the stock value after the adjustment.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)

	// AdjustStockBatch applies relative changes for several products.
	// Each adjustment is atomic per product; a failure part-way through is
	// reported to the caller, which owns the reconciliation contract.
	AdjustStockBatch(ctx context.Context, deltas map[uuid.UUID]int) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, branchID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}
