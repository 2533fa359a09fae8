package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BranchService handles branch and branch-settings operations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// CreateBranchInput represents the create branch input
type CreateBranchInput struct {
	Name          string
	Address       *string
	Phone         *string
	InvoicePrefix string
	Currency      string
	DecimalPlaces int32
	TaxEnabled    bool
	TaxRate       decimal.Decimal
	TaxIncluded   bool
	TaxPerItem    bool
}

// CreateBranch creates a new branch
func (s *BranchService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	branch := &entity.Branch{
		Name:          input.Name,
		Address:       input.Address,
		Phone:         input.Phone,
		InvoicePrefix: input.InvoicePrefix,
		Currency:      input.Currency,
		DecimalPlaces: input.DecimalPlaces,
		TaxEnabled:    input.TaxEnabled,
		TaxRate:       input.TaxRate,
		TaxIncluded:   input.TaxIncluded,
		TaxPerItem:    input.TaxPerItem,
	}
	pricingConfig := branch.PricingConfig()
	if err := pricingConfig.Validate(); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// UpdateBranchInput represents the update branch input
type UpdateBranchInput struct {
	Name          *string
	Address       *string
	Phone         *string
	InvoicePrefix *string
	Currency      *string
	DecimalPlaces *int32
	TaxEnabled    *bool
	TaxRate       *decimal.Decimal
	TaxIncluded   *bool
	TaxPerItem    *bool
}

// UpdateBranch updates branch settings. Open register sessions keep their
// current pricing until they pick up the new config explicitly; invoices
// already written are never restated.
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, input *UpdateBranchInput) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	if input.Name != nil {
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = input.Address
	}
	if input.Phone != nil {
		branch.Phone = input.Phone
	}
	if input.InvoicePrefix != nil {
		branch.InvoicePrefix = *input.InvoicePrefix
	}
	if input.Currency != nil {
		branch.Currency = *input.Currency
	}
	if input.DecimalPlaces != nil {
		branch.DecimalPlaces = *input.DecimalPlaces
	}
	if input.TaxEnabled != nil {
		branch.TaxEnabled = *input.TaxEnabled
	}
	if input.TaxRate != nil {
		branch.TaxRate = *input.TaxRate
	}
	if input.TaxIncluded != nil {
		branch.TaxIncluded = *input.TaxIncluded
	}
	if input.TaxPerItem != nil {
		branch.TaxPerItem = *input.TaxPerItem
	}

	pricingConfig := branch.PricingConfig()
	if err := pricingConfig.Validate(); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// ListBranches lists all branches
func (s *BranchService) ListBranches(ctx context.Context) ([]entity.Branch, error) {
	return s.branchRepo.List(ctx)
}

// DeleteBranch deletes a branch
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil {
		return apperror.NewNotFoundError("Branch")
	}
	return s.branchRepo.Delete(ctx, id)
}
