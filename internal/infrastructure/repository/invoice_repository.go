package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/pagination"
	"github.com/registrapos/register-api/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create claims the branch's next invoice number and inserts the invoice with
// its items in one transaction. The sequence row is locked for the duration
// of the insert, so concurrent checkouts on the same branch serialize here
// and numbers are never duplicated. A rolled-back transaction releases its
// claimed number back to the sequence.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice, prefix string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq entity.InvoiceSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&seq, "branch_id = ?", invoice.BranchID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = entity.InvoiceSequence{BranchID: invoice.BranchID, Next: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		invoice.Number = utils.FormatInvoiceNo(prefix, seq.Next)
		if err := tx.Model(&entity.InvoiceSequence{}).
			Where("branch_id = ?", invoice.BranchID).
			Update("next", seq.Next+1).Error; err != nil {
			return err
		}

		return tx.Create(invoice).Error
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, branchID uuid.UUID, number string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(branchID)).
		Preload("Items").
		First(&invoice, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, branchID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	if params == nil {
		params = &domainRepo.InvoiceFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}

	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(BranchScope(branchID))

	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at <= ?", *params.To)
	}
	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}
