package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/pagination"
)

type customerRepository struct {
	store Store
}

// NewCustomerRepository creates a document-store customer repository.
// Customers live outside the branch tree; loyalty is shared across branches.
func NewCustomerRepository(store Store) domainRepo.CustomerRepository {
	return &customerRepository{store: store}
}

func (r *customerRepository) path(id uuid.UUID) string {
	return Path("customers", id.String())
}

func (r *customerRepository) historyPath(id uuid.UUID) string {
	return Path("customers", id.String(), "points_history")
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	customer.UpdatedAt = customer.CreatedAt
	return r.store.Write(ctx, r.path(customer.ID), customer)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	raw, err := r.store.Read(ctx, r.path(id))
	if err != nil || raw == nil {
		return nil, err
	}
	var customer entity.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	customers, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].Phone != nil && *customers[i].Phone == phone {
			return &customers[i], nil
		}
	}
	return nil, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	return r.store.Write(ctx, r.path(customer.ID), customer)
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Remove(ctx, r.path(id))
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	if params == nil {
		params = &pagination.PaginationParams{}
	}
	customers, err := r.all(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := customers[:0]
	for _, c := range customers {
		if search != "" {
			needle := strings.ToLower(search)
			phone := ""
			if c.Phone != nil {
				phone = *c.Phone
			}
			if !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(phone, needle) {
				continue
			}
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

// AccruePoints increments points and total spent through the atomic update
// hook, then appends the history entry. The increment is relative, so manual
// point adjustments made elsewhere are never clobbered.
func (r *customerRepository) AccruePoints(ctx context.Context, id uuid.UUID, points int64, invoiceNo string, saleTotal decimal.Decimal) error {
	err := r.store.Transact(ctx, r.path(id), func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, fmt.Errorf("customer %s not found", id)
		}
		var customer entity.Customer
		if err := json.Unmarshal(current, &customer); err != nil {
			return nil, err
		}
		customer.Points += points
		customer.TotalSpent = customer.TotalSpent.Add(saleTotal)
		customer.UpdatedAt = time.Now().UTC()
		return &customer, nil
	})
	if err != nil {
		return err
	}

	entry := entity.PointsEntry{
		ID:         uuid.New(),
		CustomerID: id,
		InvoiceNo:  invoiceNo,
		Points:     points,
		SaleTotal:  saleTotal,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = r.store.Push(ctx, r.historyPath(id), entry)
	return err
}

func (r *customerRepository) PointsHistory(ctx context.Context, id uuid.UUID) ([]entity.PointsEntry, error) {
	docs, err := r.store.List(ctx, r.historyPath(id))
	if err != nil {
		return nil, err
	}
	entries := make([]entity.PointsEntry, 0, len(docs))
	for _, doc := range docs {
		var entry entity.PointsEntry
		if err := json.Unmarshal(doc.Data, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries, nil
}

func (r *customerRepository) all(ctx context.Context) ([]entity.Customer, error) {
	docs, err := r.store.List(ctx, "customers")
	if err != nil {
		return nil, err
	}
	customers := make([]entity.Customer, 0, len(docs))
	for _, doc := range docs {
		var customer entity.Customer
		if err := json.Unmarshal(doc.Data, &customer); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}
