package request

// InvoiceFilterRequest represents invoice listing query parameters
type InvoiceFilterRequest struct {
	From       string `form:"from"`
	To         string `form:"to"`
	CashierID  string `form:"cashier_id"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
