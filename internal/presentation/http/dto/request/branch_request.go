package request

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	InvoicePrefix string  `json:"invoice_prefix" binding:"omitempty,max=20"`
	Currency      string  `json:"currency" binding:"omitempty,max=10"`
	DecimalPlaces int32   `json:"decimal_places" binding:"min=0,max=6"`
	TaxEnabled    bool    `json:"tax_enabled"`
	TaxRate       string  `json:"tax_rate"`
	TaxIncluded   bool    `json:"tax_included"`
	TaxPerItem    bool    `json:"tax_per_item"`
}

// UpdateBranchRequest represents a branch settings update request
type UpdateBranchRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=255"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	InvoicePrefix *string `json:"invoice_prefix" binding:"omitempty,max=20"`
	Currency      *string `json:"currency" binding:"omitempty,max=10"`
	DecimalPlaces *int32  `json:"decimal_places" binding:"omitempty,min=0,max=6"`
	TaxEnabled    *bool   `json:"tax_enabled"`
	TaxRate       *string `json:"tax_rate"`
	TaxIncluded   *bool   `json:"tax_included"`
	TaxPerItem    *bool   `json:"tax_per_item"`
}
