package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeldOrder is a suspended, named cart snapshot. The snapshot is a deep copy
// of the cart lines and pricing config at hold time; recall consumes it.
type HeldOrder struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	BranchID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"branch_id"`
	CashierID  uuid.UUID     `gorm:"type:uuid;not null" json:"cashier_id"`
	CustomerID *uuid.UUID    `gorm:"type:uuid" json:"customer_id,omitempty"`
	Label      string        `gorm:"size:255;not null" json:"label"`
	Items      []CartLine    `gorm:"serializer:json" json:"items"`
	Pricing    PricingConfig `gorm:"serializer:json" json:"pricing"`
	CreatedAt  time.Time     `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new held order
func (h *HeldOrder) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldOrder model
func (HeldOrder) TableName() string {
	return "held_orders"
}
