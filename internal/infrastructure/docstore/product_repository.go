package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/pagination"
)

// productRepository serves one branch's product collection, mirroring the
// branch-scoped paths of the hosted document tree.
type productRepository struct {
	store    Store
	branchID uuid.UUID
}

// NewProductRepository creates a document-store product repository for a branch
func NewProductRepository(store Store, branchID uuid.UUID) domainRepo.ProductRepository {
	return &productRepository{store: store, branchID: branchID}
}

func (r *productRepository) path(id uuid.UUID) string {
	return Path("branches", r.branchID.String(), "products", id.String())
}

func (r *productRepository) collection() string {
	return Path("branches", r.branchID.String(), "products")
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.BranchID == uuid.Nil {
		product.BranchID = r.branchID
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	product.UpdatedAt = product.CreatedAt
	return r.store.Write(ctx, r.path(product.ID), product)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	raw, err := r.store.Read(ctx, r.path(id))
	if err != nil || raw == nil {
		return nil, err
	}
	var product entity.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	products := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		product, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if product != nil {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	products, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode == barcode {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now().UTC()
	return r.store.Write(ctx, r.path(product.ID), product)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Remove(ctx, r.path(id))
}

func (r *productRepository) List(ctx context.Context, branchID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	if branchID != r.branchID {
		return []entity.Product{}, 0, nil
	}
	if params == nil {
		params = &domainRepo.ProductFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}

	products, err := r.all(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := products[:0]
	for _, p := range products {
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Barcode), needle) {
				continue
			}
		}
		if params.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *params.CategoryID) {
			continue
		}
		if params.LowStock && !p.LowStock() {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := int64(len(filtered))
	params.Pagination.Validate()
	start := params.Pagination.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.Pagination.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var after int
	err := r.store.Transact(ctx, r.path(id), func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, fmt.Errorf("product %s not found", id)
		}
		var product entity.Product
		if err := json.Unmarshal(current, &product); err != nil {
			return nil, err
		}
		product.Stock += delta
		if product.Stock < 0 {
			product.Stock = 0
		}
		product.UpdatedAt = time.Now().UTC()
		after = product.Stock
		return &product, nil
	})
	return after, err
}

func (r *productRepository) AdjustStockBatch(ctx context.Context, deltas map[uuid.UUID]int) error {
	// Deterministic order so a partial failure is reproducible.
	ids := make([]uuid.UUID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if _, err := r.AdjustStock(ctx, id, deltas[id]); err != nil {
			return fmt.Errorf("adjust stock for %s: %w", id, err)
		}
	}
	return nil
}

func (r *productRepository) all(ctx context.Context) ([]entity.Product, error) {
	docs, err := r.store.List(ctx, r.collection())
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(docs))
	for _, doc := range docs {
		var product entity.Product
		if err := json.Unmarshal(doc.Data, &product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
