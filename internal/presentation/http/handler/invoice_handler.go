package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/application/service"
	"github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/internal/presentation/http/dto/request"
	"github.com/registrapos/register-api/internal/presentation/http/dto/response"
	"github.com/registrapos/register-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests. Invoices are
// read-only here; they are only ever created through a register checkout.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing the branch's invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	branchID := GetBranchID(c)
	if branchID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}

	if filter.From != "" {
		from, err := time.Parse(time.RFC3339, filter.From)
		if err != nil {
			response.BadRequest(c, "Invalid 'from' timestamp")
			return
		}
		params.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse(time.RFC3339, filter.To)
		if err != nil {
			response.BadRequest(c, "Invalid 'to' timestamp")
			return
		}
		params.To = &to
	}
	if filter.CashierID != "" {
		cashierID, err := uuid.Parse(filter.CashierID)
		if err == nil {
			params.CashierID = &cashierID
		}
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &customerID
		}
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), *branchID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles retrieving a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// GetByNumber handles looking up an invoice by its printed number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	branchID := GetBranchID(c)
	if branchID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	number := c.Param("number")
	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), *branchID, number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}
