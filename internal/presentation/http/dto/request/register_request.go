package request

import "github.com/google/uuid"

// AddItemRequest adds a product to the active cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest sets a cart line's quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// SetDiscountRequest applies a cart-level discount
type SetDiscountRequest struct {
	Type  string `json:"type" binding:"required,oneof=percentage fixed"`
	Value string `json:"value" binding:"required"`
}

// AttachCustomerRequest links a loyalty customer to the session
type AttachCustomerRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// CheckoutRequest completes the sale
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card online"`
	Tendered      string `json:"tendered"`
}

// HoldOrderRequest suspends the current cart under a label
type HoldOrderRequest struct {
	Label string `json:"label" binding:"omitempty,max=255"`
}
