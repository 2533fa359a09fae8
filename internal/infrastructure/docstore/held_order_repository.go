package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
)

// errUnclaimable aborts the claim transaction without touching the document
var errUnclaimable = errors.New("held order absent or already claimed")

type heldOrderRepository struct {
	store    Store
	branchID uuid.UUID
}

// NewHeldOrderRepository creates a document-store held-order repository for a branch
func NewHeldOrderRepository(store Store, branchID uuid.UUID) domainRepo.HeldOrderRepository {
	return &heldOrderRepository{store: store, branchID: branchID}
}

func (r *heldOrderRepository) collection() string {
	return Path("branches", r.branchID.String(), "held_orders")
}

func (r *heldOrderRepository) Create(ctx context.Context, order *entity.HeldOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	return r.store.Write(ctx, Path(r.collection(), order.ID.String()), order)
}

func (r *heldOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldOrder, error) {
	raw, err := r.store.Read(ctx, Path(r.collection(), id.String()))
	if err != nil || raw == nil {
		return nil, err
	}
	var order entity.HeldOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *heldOrderRepository) List(ctx context.Context, branchID uuid.UUID) ([]entity.HeldOrder, error) {
	if branchID != r.branchID {
		return []entity.HeldOrder{}, nil
	}

	docs, err := r.store.List(ctx, r.collection())
	if err != nil {
		return nil, err
	}
	orders := make([]entity.HeldOrder, 0, len(docs))
	for _, doc := range docs {
		var order entity.HeldOrder
		if err := json.Unmarshal(doc.Data, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

// Claim marks the document claimed inside a Transact, so only one of any
// set of concurrent claimants reads it unclaimed; the winner then removes
// it. Losers and absent ids both come back (nil, nil).
func (r *heldOrderRepository) Claim(ctx context.Context, id uuid.UUID) (*entity.HeldOrder, error) {
	path := Path(r.collection(), id.String())

	var order entity.HeldOrder
	err := r.store.Transact(ctx, path, func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, errUnclaimable
		}
		var doc map[string]any
		if err := json.Unmarshal(current, &doc); err != nil {
			return nil, err
		}
		if claimed, _ := doc["claimed"].(bool); claimed {
			return nil, errUnclaimable
		}
		if err := json.Unmarshal(current, &order); err != nil {
			return nil, err
		}
		doc["claimed"] = true
		return doc, nil
	})
	if errors.Is(err, errUnclaimable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.store.Remove(ctx, path); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *heldOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Remove(ctx, Path(r.collection(), id.String()))
}
