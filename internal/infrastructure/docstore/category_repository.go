package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/pagination"
)

type categoryRepository struct {
	store    Store
	branchID uuid.UUID
}

// NewCategoryRepository creates a document-store category repository for a branch
func NewCategoryRepository(store Store, branchID uuid.UUID) domainRepo.CategoryRepository {
	return &categoryRepository{store: store, branchID: branchID}
}

func (r *categoryRepository) path(id uuid.UUID) string {
	return Path("branches", r.branchID.String(), "categories", id.String())
}

func (r *categoryRepository) collection() string {
	return Path("branches", r.branchID.String(), "categories")
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.BranchID == uuid.Nil {
		category.BranchID = r.branchID
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	category.UpdatedAt = category.CreatedAt
	return r.store.Write(ctx, r.path(category.ID), category)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	raw, err := r.store.Read(ctx, r.path(id))
	if err != nil || raw == nil {
		return nil, err
	}
	var category entity.Category
	if err := json.Unmarshal(raw, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	categories, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Slug == slug {
			return &categories[i], nil
		}
	}
	return nil, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now().UTC()
	return r.store.Write(ctx, r.path(category.ID), category)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Remove(ctx, r.path(id))
}

func (r *categoryRepository) List(ctx context.Context, branchID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	if branchID != r.branchID {
		return []entity.Category{}, 0, nil
	}
	if params == nil {
		params = &pagination.PaginationParams{}
	}

	categories, err := r.all(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := categories[:0]
	for _, c := range categories {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	total := int64(len(filtered))
	params.Validate()
	start := params.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *categoryRepository) all(ctx context.Context) ([]entity.Category, error) {
	docs, err := r.store.List(ctx, r.collection())
	if err != nil {
		return nil, err
	}
	categories := make([]entity.Category, 0, len(docs))
	for _, doc := range docs {
		var category entity.Category
		if err := json.Unmarshal(doc.Data, &category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}
