package router

import (
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/config"
	"github.com/jeroroldan/admin-panel-sub001/internal/handler"
	"github.com/jeroroldan/admin-panel-sub001/internal/infra"
	"github.com/jeroroldan/admin-panel-sub001/internal/middleware"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"
	"github.com/jeroroldan/admin-panel-sub001/internal/service"
	"github.com/jeroroldan/admin-panel-sub001/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute).Middleware())

	// ── Repositories ─────────────────────────────────────────────────────────
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	seqRepo := repository.NewSequenceRepository()

	// ── Services ─────────────────────────────────────────────────────────────
	priceCache := service.NewPriceCache(rdb, cfg.ProductCacheTTL())
	dispatcher := worker.NewDispatcher(rdb)

	orderNumbers := service.NewNumberGenerator(cfg.OrderNumberPrefix, seqRepo, orderRepo.LatestNumberTx)
	saleNumbers := service.NewNumberGenerator(cfg.SaleNumberPrefix, seqRepo, saleRepo.LatestNumberTx)

	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	clientSvc := service.NewClientService(clientRepo)
	stockSvc := service.NewStockService(tx, productRepo, movementRepo, priceCache)
	productSvc := service.NewProductService(tx, productRepo, stockSvc, priceCache)
	orderSvc := service.NewOrderService(tx, orderRepo, customerRepo, productRepo, stockSvc,
		orderNumbers, dispatcher, infra.RenderOrderInvoice)
	saleSvc := service.NewSaleService(tx, saleRepo, customerRepo, productRepo, stockSvc, saleNumbers)
	reportSvc := service.NewReportService(orderRepo, saleRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	productsH := handler.NewProductsHandler(productSvc, stockSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer.Breaker()))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth required
	r.GET("/v1/products/sku/:sku", productsH.LookupBySKU)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	managers := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	admins := middleware.RequireRole(model.RoleAdmin)
	{
		users := v1.Group("/users", admins)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.GET("/:id", usersH.Get)
			users.PATCH("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}

		customers := v1.Group("/customers", staff)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PATCH("/:id", customersH.Update)
			customers.DELETE("/:id", managers, customersH.Delete)
		}

		clients := v1.Group("/clients", staff)
		{
			clients.POST("", clientsH.Create)
			clients.GET("", clientsH.List)
			clients.GET("/:id", clientsH.Get)
			clients.PATCH("/:id", clientsH.Update)
			clients.DELETE("/:id", managers, clientsH.Delete)
		}

		// Reads for all staff, catalogue writes for managers
		products := v1.Group("/products")
		{
			products.GET("", staff, productsH.List)
			products.GET("/low-stock", staff, productsH.LowStock)
			products.GET("/:id", staff, productsH.Get)
			products.POST("", managers, productsH.Create)
			products.PATCH("/:id", managers, productsH.Update)
			products.PATCH("/:id/stock", managers, productsH.AdjustStock)
			products.DELETE("/:id", managers, productsH.Deactivate)
		}

		v1.GET("/stock/movements", managers, productsH.ListMovements)

		orders := v1.Group("/orders", staff)
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/number/:number", ordersH.GetByNumber)
			orders.GET("/:id", ordersH.Get)
			orders.GET("/:id/invoice", ordersH.Invoice)
			orders.PATCH("/:id", ordersH.Update)
			orders.PATCH("/:id/status", ordersH.UpdateStatus)
			orders.PATCH("/:id/payment-status", ordersH.UpdatePaymentStatus)
			orders.DELETE("/:id", managers, ordersH.Remove)
		}

		sales := v1.Group("/sales", staff)
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.PATCH("/:id/status", salesH.UpdateStatus)
			sales.DELETE("/:id", managers, salesH.Remove)
		}

		v1.GET("/reports/export", managers, reportsH.Export)
	}

	return r
}
