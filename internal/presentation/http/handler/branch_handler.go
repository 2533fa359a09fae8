package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/application/service"
	"github.com/registrapos/register-api/internal/presentation/http/dto/request"
	"github.com/registrapos/register-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// BranchHandler handles branch-related HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// List handles listing branches
func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.branchService.ListBranches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branches retrieved successfully", branches)
}

// Get handles retrieving a single branch
func (h *BranchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch retrieved successfully", branch)
}

// Create handles branch creation
func (h *BranchHandler) Create(c *gin.Context) {
	var req request.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		rate, err := decimal.NewFromString(req.TaxRate)
		if err != nil {
			response.BadRequest(c, "Invalid tax rate")
			return
		}
		taxRate = rate
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), &service.CreateBranchInput{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		InvoicePrefix: req.InvoicePrefix,
		Currency:      req.Currency,
		DecimalPlaces: req.DecimalPlaces,
		TaxEnabled:    req.TaxEnabled,
		TaxRate:       taxRate,
		TaxIncluded:   req.TaxIncluded,
		TaxPerItem:    req.TaxPerItem,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Branch created successfully", branch)
}

// Update handles branch settings updates
func (h *BranchHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	var req request.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateBranchInput{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		InvoicePrefix: req.InvoicePrefix,
		Currency:      req.Currency,
		DecimalPlaces: req.DecimalPlaces,
		TaxEnabled:    req.TaxEnabled,
		TaxIncluded:   req.TaxIncluded,
		TaxPerItem:    req.TaxPerItem,
	}
	if req.TaxRate != nil {
		rate, err := decimal.NewFromString(*req.TaxRate)
		if err != nil {
			response.BadRequest(c, "Invalid tax rate")
			return
		}
		input.TaxRate = &rate
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch updated successfully", branch)
}

// Delete handles branch deletion
func (h *BranchHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	if err := h.branchService.DeleteBranch(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
