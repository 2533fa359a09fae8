package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a loyalty customer. Points and TotalSpent are mutated
// only by checkout accrual, and only through relative increments.
type Customer struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Phone      *string         `gorm:"size:50;index" json:"phone,omitempty"`
	Email      *string         `gorm:"size:255" json:"email,omitempty"`
	Points     int64           `gorm:"default:0" json:"points"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	PointsHistory []PointsEntry `gorm:"foreignKey:CustomerID" json:"points_history,omitempty"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// PointsEntry records a single loyalty accrual against an invoice.
// Zero-point accruals are skipped, so every entry has Points >= 1.
type PointsEntry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	InvoiceNo  string          `gorm:"size:100;not null" json:"invoice_no"`
	Points     int64           `gorm:"not null" json:"points"`
	SaleTotal  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"sale_total"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new points entry
func (p *PointsEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PointsEntry model
func (PointsEntry) TableName() string {
	return "points_history"
}
