// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/handlers"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires all API routes onto the v1 group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	setupAuthRoutes(rg, db, redisClient, cfg)
	setupUserRoutes(rg, db, redisClient, cfg)
	setupProductRoutes(rg, db, redisClient, cfg)
	setupCartRoutes(rg, db, redisClient, cfg)
	setupLensRoutes(rg, db, redisClient, cfg)
	setupCheckoutRoutes(rg, db, redisClient, cfg)
	setupOrderRoutes(rg, db, redisClient, cfg)
	setupPaymentRoutes(rg, db, redisClient, cfg)
	setupUploadRoutes(rg, db, redisClient, cfg)
	setupSellerRoutes(rg, db, redisClient, cfg)
	setupResellerRoutes(rg, db, redisClient, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/otp/send", authHandler.SendOTP)
		auth.POST("/otp/verify", authHandler.VerifyOTP)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.GetCurrentUser)
			protected.GET("/validate", authHandler.ValidateToken)
		}
	}
}

func setupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	profileHandler := handlers.NewUserProfileHandler(db, redisClient, cfg)
	addressHandler := handlers.NewUserAddressHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/profile", profileHandler.GetProfile)
		users.PUT("/profile", profileHandler.UpdateProfile)
		users.GET("/dashboard", profileHandler.GetDashboard)

		users.GET("/addresses", addressHandler.GetAddresses)
		users.POST("/addresses", addressHandler.CreateAddress)
		users.GET("/addresses/:id", addressHandler.GetAddress)
		users.PUT("/addresses/:id", addressHandler.UpdateAddress)
		users.DELETE("/addresses/:id", addressHandler.DeleteAddress)
		users.PUT("/addresses/:id/default", addressHandler.SetDefaultAddress)
	}
}

func setupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/search", productHandler.SearchProducts)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/:id", productHandler.GetProduct)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.GET("/validate", cartHandler.ValidateCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveFromCart)
		cart.PUT("/items/:productId/lens", cartHandler.SetLensChoice)
	}
}

func setupLensRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	lensHandler := handlers.NewLensWizardHandler(db, redisClient, cfg)

	lens := rg.Group("/lens")
	{
		lens.GET("/catalog", lensHandler.GetCatalog)

		wizard := lens.Group("/wizard")
		wizard.Use(middleware.AuthMiddleware(cfg))
		{
			wizard.POST("", lensHandler.StartWizard)
			wizard.GET("/:productId", lensHandler.GetWizard)
			wizard.DELETE("/:productId", lensHandler.AbandonWizard)
			wizard.PUT("/:productId/entry-method", lensHandler.SetEntryMethod)
			wizard.PUT("/:productId/lens-type", lensHandler.SetLensType)
			wizard.PUT("/:productId/power", lensHandler.SetPower)
			wizard.PUT("/:productId/prescription-file", lensHandler.SetPrescriptionFile)
			wizard.POST("/:productId/next", lensHandler.NextStep)
			wizard.POST("/:productId/back", lensHandler.PreviousStep)
			wizard.POST("/:productId/commit", lensHandler.CommitWizard)
		}
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("/place-order", checkoutHandler.PlaceOrder)
		checkout.POST("/verify-payment", checkoutHandler.VerifyPayment)
		checkout.POST("/payment-failed", checkoutHandler.PaymentFailed)
		checkout.POST("/payment-cancelled", checkoutHandler.PaymentCancelled)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, redisClient, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/number/:orderNumber", orderHandler.GetOrderByNumber)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/track", orderHandler.TrackOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/return", orderHandler.ReturnOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.GET("/:id/invoice/data", invoiceHandler.GetInvoiceData)
	}
}

func setupPaymentRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	paymentHandler := handlers.NewPaymentHandler(db, redisClient, cfg)

	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware(cfg))
	{
		payments.POST("/initiate", paymentHandler.InitiatePayment)
		payments.GET("/status/:order_id", paymentHandler.GetPaymentStatus)
		payments.GET("/methods", paymentHandler.GetPaymentMethods)
	}

	// Gateway webhooks authenticate via signature, not JWT
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/razorpay", paymentHandler.RazorpayWebhook)
	}
}

func setupUploadRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	uploadHandler := handlers.NewUploadHandler(db, cfg)

	uploads := rg.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware(cfg))
	{
		uploads.POST("", uploadHandler.UploadFile)
		uploads.POST("/prescription", uploadHandler.UploadPrescription)
		uploads.GET("/config", uploadHandler.GetUploadConfig)
		uploads.GET("/:id", uploadHandler.GetFile)
		uploads.DELETE("/:id", uploadHandler.DeleteFile)
	}
}

func setupSellerRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	sellerHandler := handlers.NewSellerHandler(db, redisClient, cfg)
	productHandler := handlers.NewProductHandler(db, cfg)

	seller := rg.Group("/seller")
	seller.Use(middleware.AuthMiddleware(cfg))
	seller.Use(middleware.SellerMiddleware())
	{
		seller.GET("/profile", sellerHandler.GetProfile)
		seller.GET("/lens-facility", sellerHandler.GetLensFacility)
		seller.PUT("/lens-facility", sellerHandler.SetLensFacility)
		seller.GET("/orders", sellerHandler.GetOrders)

		products := seller.Group("/products")
		{
			products.GET("", productHandler.SellerGetProducts)
			products.POST("", productHandler.SellerCreateProduct)
			products.PUT("/:id", productHandler.SellerUpdateProduct)
			products.DELETE("/:id", productHandler.SellerDeleteProduct)
			products.PUT("/:id/inventory", productHandler.SellerUpdateInventory)
		}
	}
}

func setupResellerRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	resellerHandler := handlers.NewResellerHandler(db, cfg)

	reseller := rg.Group("/reseller")
	reseller.Use(middleware.AuthMiddleware(cfg))
	reseller.Use(middleware.ResellerMiddleware())
	{
		reseller.POST("/quote", resellerHandler.QuoteProduct)
		reseller.POST("/bulk-quote", resellerHandler.BulkQuote)
	}
}
