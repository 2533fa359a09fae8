package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice represents a completed sale. It is immutable once created; there is
// no update path in the repository interfaces.
type Invoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Number     string          `gorm:"size:100;unique;not null" json:"number"`
	BranchID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	CashierID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	Tax        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"tax"`
	Discount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"discount"`
	Total      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`

	PaymentMethod  enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	AmountTendered decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"amount_tendered"`
	Change         decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"change"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Branch   Branch        `gorm:"foreignKey:BranchID" json:"-"`
	Cashier  User          `gorm:"foreignKey:CashierID" json:"-"`
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one line of an invoice, frozen from the cart at commit time
type InvoiceItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	LineSubtotal decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"line_subtotal"`
	CreatedAt    time.Time       `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceSequence backs atomic, branch-scoped invoice number allocation.
// The next value is claimed inside the same transaction that inserts the
// invoice, so numbers stay unique under concurrent checkouts.
type InvoiceSequence struct {
	BranchID uuid.UUID `gorm:"type:uuid;primary_key" json:"branch_id"`
	Next     int64     `gorm:"not null;default:1" json:"next"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
