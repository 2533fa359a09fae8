package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data access.
// Loyalty accrual is a relative increment so it tolerates concurrent manual
// point adjustments made outside the register.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)

	// AccruePoints increments the customer's points and total spent and
	// appends a points-history entry, as one storage-level step.
	AccruePoints(ctx context.Context, id uuid.UUID, points int64, invoiceNo string, saleTotal decimal.Decimal) error

	PointsHistory(ctx context.Context, id uuid.UUID) ([]entity.PointsEntry, error)
}
