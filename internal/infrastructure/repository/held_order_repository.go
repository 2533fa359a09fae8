package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type heldOrderRepository struct {
	db *gorm.DB
}

// NewHeldOrderRepository creates a new held-order repository
func NewHeldOrderRepository(db *gorm.DB) domainRepo.HeldOrderRepository {
	return &heldOrderRepository{db: db}
}

func (r *heldOrderRepository) Create(ctx context.Context, order *entity.HeldOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *heldOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldOrder, error) {
	var order entity.HeldOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *heldOrderRepository) List(ctx context.Context, branchID uuid.UUID) ([]entity.HeldOrder, error) {
	var orders []entity.HeldOrder
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(branchID)).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// Claim locks the row, deletes it, and returns it in one transaction, so
// concurrent claims on the same order serialize and exactly one succeeds.
func (r *heldOrderRepository) Claim(ctx context.Context, id uuid.UUID) (*entity.HeldOrder, error) {
	var order entity.HeldOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.HeldOrder{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *heldOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.HeldOrder{}, "id = ?", id).Error
}
