package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Capability names checked before privileged register operations
const (
	CapabilityCheckout        = "checkout"
	CapabilityManageProducts  = "manage-products"
	CapabilityManageCustomers = "manage-customers"
	CapabilityManageBranches  = "manage-branches"
)

// User represents a cashier or manager account
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"size:255;unique;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Capabilities []string       `gorm:"serializer:json" json:"capabilities"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Can reports whether the user holds the named capability
func (u *User) Can(capability string) bool {
	for _, c := range u.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
