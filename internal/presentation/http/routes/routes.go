package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/registrapos/register-api/internal/config"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/registrapos/register-api/internal/presentation/http/handler"
	"github.com/registrapos/register-api/internal/presentation/http/middleware"
	"github.com/registrapos/register-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Branch   *handler.BranchHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Invoice  *handler.InvoiceHandler
	Register *handler.RegisterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	Logger     *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	rateLimiter := middleware.NewBranchRateLimiter(rateLimiterConfig(&deps.Cfg.RateLimit))
	protected.Use(rateLimiter.Middleware())

	// Account routes for the authenticated user
	auth := protected.Group("/auth")
	{
		auth.GET("/profile", h.Auth.Profile)
		auth.POST("/change-password", h.Auth.ChangePassword)
		auth.POST("/register", middleware.RequireCapability(entity.CapabilityManageBranches), h.Auth.Register)
	}

	registerBranchRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerInvoiceRoutes(protected, h)
	registerSessionRoutes(protected, h)
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		limiterCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		limiterCfg.BurstSize = cfg.Requests
	}
	limiterCfg.CleanupInterval = 5 * time.Minute
	return limiterCfg
}

func registerBranchRoutes(protected *gin.RouterGroup, h *Handlers) {
	branches := protected.Group("/branches")
	{
		branches.GET("", h.Branch.List)
		branches.GET("/:id", h.Branch.Get)

		manage := branches.Group("")
		manage.Use(middleware.RequireCapability(entity.CapabilityManageBranches))
		{
			manage.POST("", h.Branch.Create)
			manage.PATCH("/:id", h.Branch.Update)
			manage.DELETE("/:id", h.Branch.Delete)
		}
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)

		manage := products.Group("")
		manage.Use(middleware.RequireCapability(entity.CapabilityManageProducts))
		{
			manage.POST("", h.Product.Create)
			manage.PATCH("/:id", h.Product.Update)
			manage.DELETE("/:id", h.Product.Delete)
			manage.POST("/:id/adjust-stock", h.Product.AdjustStock)
		}
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Product.ListCategories)

		manage := categories.Group("")
		manage.Use(middleware.RequireCapability(entity.CapabilityManageProducts))
		{
			manage.POST("", h.Product.CreateCategory)
			manage.DELETE("/:id", h.Product.DeleteCategory)
		}
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.GET("/phone/:phone", h.Customer.FindByPhone)
		customers.GET("/:id/points", h.Customer.PointsHistory)

		manage := customers.Group("")
		manage.Use(middleware.RequireCapability(entity.CapabilityManageCustomers))
		{
			manage.POST("", h.Customer.Create)
			manage.PATCH("/:id", h.Customer.Update)
			manage.DELETE("/:id", h.Customer.Delete)
		}
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/number/:number", h.Invoice.GetByNumber)
	}
}

// Session routes cover the live register surface. Checkout requires the
// checkout capability; the session check inside Checkout enforces it too,
// so the middleware is a fast path rather than the only gate.
func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/register/sessions")
	{
		sessions.POST("", h.Register.Open)
		sessions.GET("/:sessionID", h.Register.Get)
		sessions.DELETE("/:sessionID", h.Register.Close)

		sessions.POST("/:sessionID/items", h.Register.AddItem)
		sessions.PUT("/:sessionID/items/:productID", h.Register.SetQuantity)
		sessions.DELETE("/:sessionID/items/:productID", h.Register.RemoveItem)
		sessions.DELETE("/:sessionID/items", h.Register.Clear)

		sessions.GET("/:sessionID/summary", h.Register.Summary)
		sessions.PUT("/:sessionID/discount", h.Register.SetDiscount)
		sessions.PUT("/:sessionID/customer", h.Register.AttachCustomer)
		sessions.DELETE("/:sessionID/customer", h.Register.DetachCustomer)

		sessions.POST("/:sessionID/checkout",
			middleware.RequireCapability(entity.CapabilityCheckout), h.Register.Checkout)

		sessions.POST("/:sessionID/hold", h.Register.Hold)
		sessions.GET("/:sessionID/held-orders", h.Register.HeldOrders)
		sessions.POST("/:sessionID/held-orders/:orderID/recall", h.Register.Recall)
		sessions.DELETE("/:sessionID/held-orders/:orderID", h.Register.DeleteHeldOrder)
	}
}
