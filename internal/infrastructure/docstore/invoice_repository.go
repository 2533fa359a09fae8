package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/pkg/pagination"
	"github.com/registrapos/register-api/pkg/utils"
)

type invoiceRepository struct {
	store    Store
	branchID uuid.UUID
}

// NewInvoiceRepository creates a document-store invoice repository for a branch
func NewInvoiceRepository(store Store, branchID uuid.UUID) domainRepo.InvoiceRepository {
	return &invoiceRepository{store: store, branchID: branchID}
}

func (r *invoiceRepository) collection() string {
	return Path("branches", r.branchID.String(), "invoices")
}

func (r *invoiceRepository) counterPath() string {
	return Path("branches", r.branchID.String(), "counters", "invoice_seq")
}

type invoiceCounter struct {
	Next int64 `json:"next"`
}

// Create claims the next sequence value through the store's atomic update
// hook, then writes the invoice. The claim can never be taken twice, so
// numbers stay unique under concurrent checkouts; a crash between claim and
// write burns a number, never duplicates one.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice, prefix string) error {
	var seq int64
	err := r.store.Transact(ctx, r.counterPath(), func(current json.RawMessage) (any, error) {
		counter := invoiceCounter{Next: 1}
		if current != nil {
			if err := json.Unmarshal(current, &counter); err != nil {
				return nil, err
			}
		}
		seq = counter.Next
		counter.Next++
		return counter, nil
	})
	if err != nil {
		return err
	}

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.Number = utils.FormatInvoiceNo(prefix, seq)
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now().UTC()
	}
	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
		invoice.Items[i].CreatedAt = invoice.CreatedAt
	}

	return r.store.Write(ctx, Path(r.collection(), invoice.ID.String()), invoice)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	raw, err := r.store.Read(ctx, Path(r.collection(), id.String()))
	if err != nil || raw == nil {
		return nil, err
	}
	var invoice entity.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, branchID uuid.UUID, number string) (*entity.Invoice, error) {
	if branchID != r.branchID {
		return nil, nil
	}
	invoices, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].Number == number {
			return &invoices[i], nil
		}
	}
	return nil, nil
}

func (r *invoiceRepository) List(ctx context.Context, branchID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	if branchID != r.branchID {
		return []entity.Invoice{}, 0, nil
	}
	if params == nil {
		params = &domainRepo.InvoiceFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}

	invoices, err := r.all(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := invoices[:0]
	for _, inv := range invoices {
		if params.From != nil && inv.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && inv.CreatedAt.After(*params.To) {
			continue
		}
		if params.CashierID != nil && inv.CashierID != *params.CashierID {
			continue
		}
		if params.CustomerID != nil && (inv.CustomerID == nil || *inv.CustomerID != *params.CustomerID) {
			continue
		}
		filtered = append(filtered, inv)
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

func (r *invoiceRepository) all(ctx context.Context) ([]entity.Invoice, error) {
	docs, err := r.store.List(ctx, r.collection())
	if err != nil {
		return nil, err
	}
	invoices := make([]entity.Invoice, 0, len(docs))
	for _, doc := range docs {
		var invoice entity.Invoice
		if err := json.Unmarshal(doc.Data, &invoice); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}
