package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/application/register"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/domain/enum"
	"github.com/registrapos/register-api/internal/domain/repository"
	"github.com/registrapos/register-api/internal/presentation/http/dto/request"
	"github.com/registrapos/register-api/internal/presentation/http/dto/response"
	"github.com/registrapos/register-api/pkg/money"
	"github.com/shopspring/decimal"
)

// RegisterHandler exposes register sessions over HTTP. A session is opened
// per physical register and addressed by its ID on every subsequent call;
// cart state lives in memory inside the session, not in the request.
type RegisterHandler struct {
	manager    *register.Manager
	branchRepo repository.BranchRepository
	userRepo   repository.UserRepository
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(
	manager *register.Manager,
	branchRepo repository.BranchRepository,
	userRepo repository.UserRepository,
) *RegisterHandler {
	return &RegisterHandler{manager: manager, branchRepo: branchRepo, userRepo: userRepo}
}

// sessionView is the session state returned after every cart operation
type sessionView struct {
	SessionID uuid.UUID            `json:"session_id"`
	BranchID  uuid.UUID            `json:"branch_id"`
	CashierID uuid.UUID            `json:"cashier_id"`
	Lines     []entity.CartLine    `json:"lines"`
	Customer  *uuid.UUID           `json:"customer_id,omitempty"`
	Pricing   entity.PricingConfig `json:"pricing"`
	Summary   register.Summary     `json:"summary"`
}

func newSessionView(s *register.Session) (*sessionView, error) {
	summary, err := s.Summary()
	if err != nil {
		return nil, err
	}
	return &sessionView{
		SessionID: s.ID,
		BranchID:  s.Branch().ID,
		CashierID: s.Cashier().ID,
		Lines:     s.Lines(),
		Customer:  s.CustomerID(),
		Pricing:   s.Pricing(),
		Summary:   summary,
	}, nil
}

func (h *RegisterHandler) respondWithSession(c *gin.Context, message string, s *register.Session) {
	view, err := newSessionView(s)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, view)
}

// session resolves the :sessionID path parameter to an open session
func (h *RegisterHandler) session(c *gin.Context) (*register.Session, bool) {
	id, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return nil, false
	}
	s, err := h.manager.Get(id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return s, true
}

// Open opens a register session for the authenticated cashier's branch
func (h *RegisterHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	branchID := GetBranchID(c)
	if userID == nil || branchID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cashier, err := h.userRepo.GetByID(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if cashier == nil {
		response.Unauthorized(c, "User not found")
		return
	}

	branch, err := h.branchRepo.GetByID(c.Request.Context(), *branchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if branch == nil {
		response.BadRequest(c, "Branch not found")
		return
	}

	s := h.manager.Open(cashier, branch, register.Events{})
	view, err := newSessionView(s)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Register session opened", view)
}

// Close closes a register session, discarding any uncommitted cart
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}
	h.manager.Close(id)
	response.NoContent(c)
}

// Get returns the current state of a session
func (h *RegisterHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respondWithSession(c, "Session retrieved successfully", s)
}

// AddItem adds a product to the cart, merging with an existing line
func (h *RegisterHandler) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := s.AddItem(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Item added to cart", s)
}

// SetQuantity sets a cart line's quantity; zero removes the line
func (h *RegisterHandler) SetQuantity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := s.SetQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Quantity updated", s)
}

// RemoveItem removes a cart line
func (h *RegisterHandler) RemoveItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := s.RemoveItem(productID); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Item removed from cart", s)
}

// Clear empties the cart and detaches the customer
func (h *RegisterHandler) Clear(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.Clear(); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Cart cleared", s)
}

// SetDiscount applies a cart-level discount
func (h *RegisterHandler) SetDiscount(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		response.BadRequest(c, "Invalid discount value")
		return
	}

	discountType := enum.DiscountTypePercentage
	if req.Type == "fixed" {
		discountType = enum.DiscountTypeFixed
	}

	if err := s.SetDiscount(discountType, value); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Discount applied", s)
}

// AttachCustomer links a loyalty customer to the session
func (h *RegisterHandler) AttachCustomer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req request.AttachCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := s.AttachCustomer(c.Request.Context(), req.CustomerID); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Customer attached", s)
}

// DetachCustomer unlinks the session's customer
func (h *RegisterHandler) DetachCustomer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.DetachCustomer()
	h.respondWithSession(c, "Customer detached", s)
}

// Summary returns the priced totals for the current cart
func (h *RegisterHandler) Summary(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	summary, err := s.Summary()
	if err != nil {
		response.Error(c, err)
		return
	}

	pricing := s.Pricing()
	response.OK(c, "Summary computed", gin.H{
		"summary":       summary,
		"display_total": money.Format(summary.Total, pricing.Currency, pricing.DecimalPlaces),
	})
}

// Checkout completes the sale and returns the persisted invoice
func (h *RegisterHandler) Checkout(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var method enum.PaymentMethod
	switch req.PaymentMethod {
	case "cash":
		method = enum.PaymentMethodCash
	case "card":
		method = enum.PaymentMethodCard
	case "online":
		method = enum.PaymentMethodOnline
	}

	// Tendered comes from a cash drawer UI and may carry grouping or a
	// currency symbol; Parse accepts the display form.
	tendered := decimal.Zero
	if req.Tendered != "" {
		t, err := money.Parse(req.Tendered)
		if err != nil {
			response.BadRequest(c, "Invalid tendered amount")
			return
		}
		tendered = t
	}

	invoice, err := s.Checkout(c.Request.Context(), register.Payment{Method: method, Tendered: tendered})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed", invoice)
}

// Hold suspends the current cart under a label and empties the register
func (h *RegisterHandler) Hold(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req request.HoldOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := s.Hold(c.Request.Context(), req.Label)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order held", order)
}

// HeldOrders lists the branch's held orders in creation order
func (h *RegisterHandler) HeldOrders(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	orders, err := s.HeldOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held orders retrieved successfully", orders)
}

// Recall restores a held order into the session, replacing the active cart
func (h *RegisterHandler) Recall(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		response.BadRequest(c, "Invalid held order ID")
		return
	}

	if err := s.Recall(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithSession(c, "Order recalled", s)
}

// DeleteHeldOrder discards a held order without recalling it
func (h *RegisterHandler) DeleteHeldOrder(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		response.BadRequest(c, "Invalid held order ID")
		return
	}

	if err := s.DeleteHeldOrder(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
