package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	if params == nil {
		params = &pagination.PaginationParams{}
	}

	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})

	if search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// AccruePoints increments points and total spent with relative updates and
// appends the history row, all in one transaction. Relative increments mean
// a concurrent manual point adjustment is never clobbered by a stale read.
func (r *customerRepository) AccruePoints(ctx context.Context, id uuid.UUID, points int64, invoiceNo string, saleTotal decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Customer{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"points":      gorm.Expr("points + ?", points),
				"total_spent": gorm.Expr("total_spent + ?", saleTotal),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry := entity.PointsEntry{
			CustomerID: id,
			InvoiceNo:  invoiceNo,
			Points:     points,
			SaleTotal:  saleTotal,
		}
		return tx.Create(&entry).Error
	})
}

func (r *customerRepository) PointsHistory(ctx context.Context, id uuid.UUID) ([]entity.PointsEntry, error) {
	var entries []entity.PointsEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
