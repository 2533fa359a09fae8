package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
)

// HeldOrderRepository defines the interface for suspended-order data access
type HeldOrderRepository interface {
	Create(ctx context.Context, order *entity.HeldOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldOrder, error)

	// List returns all held orders for a branch, ordered by creation time.
	List(ctx context.Context, branchID uuid.UUID) ([]entity.HeldOrder, error)

	// Claim atomically removes the held order and returns it. Exactly one of
	// any set of concurrent claimants gets the order; the rest get (nil, nil),
	// same as an absent id. Registers share held orders across sessions, so
	// this is the only safe way to consume one.
	Claim(ctx context.Context, id uuid.UUID) (*entity.HeldOrder, error)

	// Delete removes a held order; deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
