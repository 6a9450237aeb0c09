package routes

import (
	"context"
	"net/http"
	"time"

	"cafe-backend/configs"
	"cafe-backend/controllers"
	"cafe-backend/middlewares"
	"cafe-backend/pkg/audit"
	"cafe-backend/repository"
	"cafe-backend/services"
	"cafe-backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// RegisterRoutes wires repositories, services and controllers onto r. The
// websocket hub runs until ctx is cancelled.
func RegisterRoutes(ctx context.Context, r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *configs.Config, log *zap.Logger) {
	auditLog := audit.New(log)

	// Repositories
	categoryRepo := repository.NewCategoryRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	deviceRepo := repository.NewOTPDeviceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	supportRepo := repository.NewSupportRepository(db)
	cartRepo := repository.NewCartRepository(rdb, cfg.SessionTTL)
	sessionRepo := repository.NewSessionRepository(rdb, cfg.SessionTTL)

	// Services
	catalogSvc := services.NewCatalogService(categoryRepo, menuRepo)
	cartSvc := services.NewCartService(cartRepo, menuRepo)
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, cartRepo, log.Named("orders"))
	paymentSvc := services.NewPaymentService(db, paymentRepo, orderRepo, log.Named("payments"))
	reviewSvc := services.NewReviewService(reviewRepo, menuRepo, log.Named("reviews"))
	supportSvc := services.NewSupportService(db, supportRepo, log.Named("support"))
	authSvc := services.NewAuthService(userRepo, profileRepo, deviceRepo, sessionRepo, auditLog, cfg.JWTSecret, cfg.JWTTTL)
	twoFactorSvc := services.NewTwoFactorService(deviceRepo, sessionRepo, auditLog, "Timepiece Cafe")

	hub := ws.NewHub(supportSvc, cfg.AllowedOrigins, log)
	supportSvc.Notifier = hub
	orderSvc.Notifier = hub
	go hub.Run(ctx)

	// Controllers
	menuCtrl := controllers.NewMenuController(catalogSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, cartSvc)
	paymentCtrl := controllers.NewPaymentController(paymentSvc)
	reviewCtrl := controllers.NewReviewController(reviewSvc)
	supportCtrl := controllers.NewSupportController(supportSvc)
	authCtrl := controllers.NewAuthController(authSvc, twoFactorSvc, cfg.JWTTTL, !cfg.Debug)
	newsletterCtrl := controllers.NewNewsletterController(log.Named("newsletter"))

	r.Use(globalMiddleware(cfg, log, auditLog, twoFactorSvc)...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 5 attempts per minute per IP on credential endpoints
	credLimiter := middlewares.RateLimitMiddleware(middlewares.NewRateLimiter(rate.Every(12*time.Second), 5, 10*time.Minute))

	// ----- Pages (public) -----
	r.GET("/", menuCtrl.Home)
	r.GET("/menu/", menuCtrl.Menu)
	r.GET("/menu/category/:id/", menuCtrl.Category)
	r.GET("/menu/item/:id/", menuCtrl.ItemDetail)
	r.POST("/newsletter-signup/", newsletterCtrl.Signup)

	r.GET("/cart/", cartCtrl.View)
	r.POST("/cart/add/:id/", cartCtrl.Add)
	r.POST("/cart/update/:id/", cartCtrl.Update)
	r.POST("/cart/remove/:id/", cartCtrl.Remove)

	r.POST("/register/", credLimiter, authCtrl.Register)
	r.GET("/login/", authCtrl.LoginPage)
	r.POST("/login/", credLimiter, authCtrl.Login)
	r.POST("/logout/", authCtrl.Logout)
	r.GET("/logout/", authCtrl.Logout)

	// ----- Pages (login required) -----
	page := r.Group("/", middlewares.LoginRequired())
	{
		page.POST("/login/verify/", credLimiter, authCtrl.Verify)
		page.GET("/two_factor/setup/", authCtrl.BeginSetup)
		page.POST("/two_factor/setup/", authCtrl.ConfirmSetup)

		page.GET("/checkout/", orderCtrl.CheckoutSummary)
		page.POST("/checkout/", orderCtrl.Checkout)
		page.GET("/orders/", orderCtrl.MyOrders)
		page.GET("/orders/:order_number/", orderCtrl.MyOrder)

		page.GET("/support/", supportCtrl.Page)
		page.POST("/support/create/", supportCtrl.CreatePage)
		page.GET("/support/:id/", supportCtrl.Detail)
		page.POST("/support/:id/", supportCtrl.Reply)
		page.POST("/support/:id/update/", supportCtrl.UpdatePage)
	}

	// ----- API (public reads) -----
	api := r.Group("/api")
	{
		api.GET("/categories", menuCtrl.ListCategories)
		api.GET("/categories/:id", menuCtrl.GetCategory)
		api.GET("/menu-items", menuCtrl.ListItems)
		api.GET("/menu-items/:id", menuCtrl.GetItem)
		api.GET("/reviews", reviewCtrl.List)
		api.GET("/reviews/:id", reviewCtrl.Get)
	}

	// ----- API (staff) -----
	staff := api.Group("", middlewares.AuthMiddleware(true))
	{
		staff.POST("/categories", menuCtrl.CreateCategory)
		staff.PUT("/categories/:id", menuCtrl.UpdateCategory)
		staff.PATCH("/categories/:id", menuCtrl.UpdateCategory)
		staff.DELETE("/categories/:id", menuCtrl.DeleteCategory)

		staff.POST("/menu-items", menuCtrl.CreateItem)
		staff.PUT("/menu-items/:id", menuCtrl.UpdateItem)
		staff.PATCH("/menu-items/:id", menuCtrl.UpdateItem)
		staff.DELETE("/menu-items/:id", menuCtrl.DeleteItem)

		staff.PATCH("/orders/:id/status", orderCtrl.UpdateStatus)
		staff.DELETE("/orders/:id", orderCtrl.Delete)
		staff.PATCH("/payments/:id/status", paymentCtrl.UpdateStatus)
		staff.DELETE("/support-requests/:id", supportCtrl.Delete)
	}

	// ----- API (authenticated) -----
	authed := api.Group("", middlewares.AuthMiddleware(false))
	{
		authed.GET("/me", authCtrl.Me)
		authed.PATCH("/me", authCtrl.UpdateMe)

		authed.GET("/profiles", authCtrl.ListProfiles)
		authed.GET("/profiles/:id", authCtrl.GetProfile)
		authed.PATCH("/profiles/:id", authCtrl.UpdateProfile)

		authed.POST("/reviews", reviewCtrl.Create)
		authed.PUT("/reviews/:id", reviewCtrl.Update)
		authed.PATCH("/reviews/:id", reviewCtrl.Update)
		authed.DELETE("/reviews/:id", reviewCtrl.Delete)

		authed.GET("/orders", orderCtrl.List)
		authed.POST("/orders", orderCtrl.Create)
		authed.GET("/orders/:id", orderCtrl.Get)
		authed.PATCH("/orders/:id", orderCtrl.Update)
		authed.GET("/order-items", orderCtrl.ListItems)
		authed.GET("/order-items/:id", orderCtrl.GetItem)

		authed.GET("/payments", paymentCtrl.List)
		authed.POST("/payments", paymentCtrl.Create)
		authed.GET("/payments/:id", paymentCtrl.Get)

		authed.GET("/support-requests", supportCtrl.List)
		authed.POST("/support-requests", supportCtrl.Create)
		authed.GET("/support-requests/:id", supportCtrl.Get)
		authed.PATCH("/support-requests/:id", supportCtrl.Update)
		authed.POST("/support-requests/:id/assign", supportCtrl.Assign())
		authed.POST("/support-requests/:id/resolve", supportCtrl.Resolve())
		authed.POST("/support-requests/:id/close", supportCtrl.Close())

		authed.GET("/support-messages", supportCtrl.ListMessages)
		authed.POST("/support-messages", supportCtrl.CreateMessage)
		authed.GET("/support-messages/:id", supportCtrl.GetMessage)
	}

	// ----- Websocket -----
	wsGroup := r.Group("/ws", middlewares.WSAuthMiddleware(cfg.JWTSecret))
	{
		wsGroup.GET("/support/:id", hub.HandleSupport)
		wsGroup.GET("/orders", hub.HandleOrders)
	}
}

// globalMiddleware is the chain every request runs through. The header writer
// goes first so redirects get headers too; the query scan runs ahead of CORS
// because CORS answers preflight requests itself and stops the chain.
func globalMiddleware(cfg *configs.Config, log *zap.Logger, auditLog *audit.Logger, otp middlewares.OTPChecker) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middlewares.RequestLogger(log.Named("http")),
		middlewares.PrometheusMiddleware(),
		middlewares.SecurityHeaders(cfg.Debug),
		middlewares.SlowRequests(auditLog, cfg.SlowRequestThreshold),
		middlewares.ScanQuery(auditLog),
		middlewares.CORSMiddleware(cfg.AllowedOrigins),
		middlewares.Session(cfg.SessionTTL, !cfg.Debug),
		middlewares.Authenticate(cfg.JWTSecret),
		middlewares.TwoFactorGate(otp, log),
	}
}
