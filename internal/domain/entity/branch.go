package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Branch represents a physical store location. Each branch carries its own
// invoice sequence prefix and pricing defaults.
type Branch struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	InvoicePrefix string         `gorm:"size:20;default:'INV-'" json:"invoice_prefix"`
	Currency      string         `gorm:"size:10;default:'KES'" json:"currency"`
	DecimalPlaces int32          `gorm:"default:2" json:"decimal_places"`
	TaxEnabled    bool           `gorm:"default:true" json:"tax_enabled"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(6,3);default:0" json:"tax_rate"`
	TaxIncluded   bool           `gorm:"default:false" json:"tax_included"`
	TaxPerItem    bool           `gorm:"default:false" json:"tax_per_item"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:BranchID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new branch
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// PricingConfig derives the branch's default pricing configuration.
func (b *Branch) PricingConfig() PricingConfig {
	return PricingConfig{
		Currency:           b.Currency,
		DecimalPlaces:      b.DecimalPlaces,
		TaxEnabled:         b.TaxEnabled,
		TaxRate:            b.TaxRate,
		TaxIncludedInPrice: b.TaxIncluded,
		ApplyTaxPerItem:    b.TaxPerItem,
		DiscountType:       enum.DiscountTypePercentage,
		DiscountValue:      decimal.Zero,
	}
}
