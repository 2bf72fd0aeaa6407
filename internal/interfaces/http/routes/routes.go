// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/cart"
	"github.com/readnwin/readnwin-backend/internal/domain/checkout"
	"github.com/readnwin/readnwin-backend/internal/domain/library"
	"github.com/readnwin/readnwin-backend/internal/domain/order"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
	"github.com/readnwin/readnwin-backend/internal/interfaces/http/handlers"
	"github.com/readnwin/readnwin-backend/internal/interfaces/http/middleware"
	"github.com/readnwin/readnwin-backend/internal/pkg/email"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRoutes wires all API v1 routes.
//
// The checkout, payment, order and invoice handlers share single service
// instances because the payment service needs the same cart and library
// services the checkout flow uses; everything else builds its own.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	cartService := cart.NewService(db, redisClient, cfg, log)
	orderService := order.NewService(db, cfg, cartService, log)
	libraryService := library.NewService(db, cfg, log)
	emailService := email.NewEmailService(cfg)
	paymentService := payment.NewService(db, cfg, log, cartService, libraryService, emailService)
	checkoutService := checkout.NewService(db, redisClient, cfg, log, cartService, orderService, paymentService)

	authHandler := handlers.NewAuthHandler(db, cfg, log)
	bookHandler := handlers.NewBookHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService, orderService, cfg)
	orderHandler := handlers.NewOrderHandler(orderService, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(orderService, cfg)
	libraryHandler := handlers.NewLibraryHandler(db, cfg, log)
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)
	blogHandler := handlers.NewBlogHandler(db, cfg)
	faqHandler := handlers.NewFAQHandler(db, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	setupAuthRoutes(rg, authHandler, cfg)
	setupPublicRoutes(rg, bookHandler, blogHandler, faqHandler, paymentHandler, cfg)
	setupCartRoutes(rg, cartHandler, cfg)
	setupCheckoutRoutes(rg, checkoutHandler, cfg)
	setupOrderRoutes(rg, orderHandler, invoiceHandler, paymentHandler, cfg)
	setupLibraryRoutes(rg, libraryHandler, cfg)
	setupWishlistRoutes(rg, wishlistHandler, cfg)
	setupAdminRoutes(rg, bookHandler, orderHandler, paymentHandler, userAdminHandler, libraryHandler, blogHandler, faqHandler, analyticsHandler, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.GetCurrentUser)
			protected.GET("/validate", authHandler.ValidateToken)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/change-password", authHandler.ChangePassword)
			protected.POST("/verify-email", authHandler.VerifyEmail)
		}
	}
}

func setupPublicRoutes(rg *gin.RouterGroup, bookHandler *handlers.BookHandler, blogHandler *handlers.BlogHandler, faqHandler *handlers.FAQHandler, paymentHandler *handlers.PaymentHandler, cfg *config.Config) {
	books := rg.Group("/books")
	books.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		books.GET("", bookHandler.GetBooks)
		books.GET("/categories", bookHandler.GetCategories)
		books.GET("/slug/:slug", bookHandler.GetBookBySlug)
		books.GET("/:id", bookHandler.GetBook)
	}

	blog := rg.Group("/blog")
	{
		blog.GET("", blogHandler.GetPosts)
		blog.GET("/:slug", blogHandler.GetPostBySlug)
	}

	rg.GET("/faqs", faqHandler.GetFAQs)

	// Gateway listing and the Flutterwave redirect landing are public:
	// the callback arrives from the customer's browser without a token.
	rg.GET("/payment-gateways", paymentHandler.ListGateways)
	rg.GET("/payment/callback", paymentHandler.FlutterwaveCallback)
}

func setupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler, cfg *config.Config) {
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.GET("/count", cartHandler.GetCartCount)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}

	// Transfer and merge need a signed-in destination cart.
	transfer := rg.Group("/cart")
	transfer.Use(middleware.AuthMiddleware(cfg))
	{
		transfer.POST("/transfer-guest", cartHandler.TransferGuestCart)
		transfer.POST("/merge", cartHandler.MergeGuestCart)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, cfg *config.Config) {
	co := rg.Group("/checkout")
	co.Use(middleware.AuthMiddleware(cfg))
	{
		co.GET("", checkoutHandler.GetState)
		co.PUT("", checkoutHandler.UpdateForm)
		co.POST("/next", checkoutHandler.NextStep)
		co.POST("/back", checkoutHandler.PreviousStep)
		co.DELETE("", checkoutHandler.Reset)
		co.POST("", checkoutHandler.Submit)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, invoiceHandler *handlers.InvoiceHandler, paymentHandler *handlers.PaymentHandler, cfg *config.Config) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetUserOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.GET("/:id/invoice/data", invoiceHandler.GetInvoiceData)
	}

	pay := rg.Group("/payment")
	pay.Use(middleware.AuthMiddleware(cfg))
	{
		pay.POST("/initialize/:orderId", paymentHandler.InitializePayment)
		pay.GET("/bank-transfer/:orderId", paymentHandler.GetBankTransferDetails)
	}
}

func setupLibraryRoutes(rg *gin.RouterGroup, libraryHandler *handlers.LibraryHandler, cfg *config.Config) {
	lib := rg.Group("/user/library")
	lib.Use(middleware.AuthMiddleware(cfg))
	{
		lib.GET("", libraryHandler.GetLibrary)
		lib.GET("/recent", libraryHandler.GetRecentlyRead)
		lib.GET("/:bookId", libraryHandler.GetEntry)
		lib.PUT("/:bookId/progress", libraryHandler.UpdateProgress)
		lib.DELETE("/:bookId", libraryHandler.RemoveEntry)
	}
}

func setupWishlistRoutes(rg *gin.RouterGroup, wishlistHandler *handlers.WishlistHandler, cfg *config.Config) {
	wl := rg.Group("/wishlist")
	wl.Use(middleware.AuthMiddleware(cfg))
	{
		wl.GET("", wishlistHandler.GetWishlist)
		wl.POST("", wishlistHandler.AddToWishlist)
		wl.DELETE("/:bookId", wishlistHandler.RemoveFromWishlist)
		wl.GET("/:bookId/status", wishlistHandler.CheckWishlist)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, bookHandler *handlers.BookHandler, orderHandler *handlers.OrderHandler, paymentHandler *handlers.PaymentHandler, userAdminHandler *handlers.UserAdminHandler, libraryHandler *handlers.LibraryHandler, blogHandler *handlers.BlogHandler, faqHandler *handlers.FAQHandler, analyticsHandler *handlers.AnalyticsHandler, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		books := admin.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.POST("", bookHandler.CreateBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrderAdmin)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}

		admin.POST("/payments/bank-transfer/:orderId/confirm", paymentHandler.ConfirmBankTransfer)

		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.GetUsers)
			users.GET("/export", userAdminHandler.ExportUsers)
			users.GET("/:id", userAdminHandler.GetUser)
			users.PUT("/:id/status", userAdminHandler.UpdateUserStatus)
			users.PUT("/:id/role", userAdminHandler.UpdateUserRole)
			users.GET("/:id/library", libraryHandler.GetUserLibrary)
			users.POST("/:id/library", libraryHandler.AssignToUser)
			users.DELETE("/:id/library/:bookId", libraryHandler.RemoveFromUser)
		}

		blog := admin.Group("/blog")
		{
			blog.GET("", blogHandler.ListPosts)
			blog.POST("", blogHandler.CreatePost)
			blog.PUT("/:id", blogHandler.UpdatePost)
			blog.DELETE("/:id", blogHandler.DeletePost)
		}

		faqs := admin.Group("/faqs")
		{
			faqs.GET("", faqHandler.ListFAQs)
			faqs.POST("", faqHandler.CreateFAQ)
			faqs.PUT("/:id", faqHandler.UpdateFAQ)
			faqs.DELETE("/:id", faqHandler.DeleteFAQ)
		}

		analytics := admin.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.GetDashboardStats)
			analytics.GET("/sales", analyticsHandler.GetSalesAnalytics)
			analytics.GET("/reading", analyticsHandler.GetReadingAnalytics)
			analytics.GET("/customers", analyticsHandler.GetCustomerAnalytics)
		}
	}
}
