package routes

import (
	"time"

	"github.com/stevejford/sassiart/cart"
	"github.com/stevejford/sassiart/firebase"
	"github.com/stevejford/sassiart/handlers"
	"github.com/stevejford/sassiart/middleware"
	"github.com/stevejford/sassiart/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, storage firebase.StorageClient, carts *cart.Manager, hub *realtime.Hub) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	sessionHandler := &handlers.SessionHandler{Carts: carts}
	cartHandler := &handlers.CartHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db, Hub: hub}
	productHandler := &handlers.ProductHandler{DB: db, Storage: storage, Hub: hub}
	artworkHandler := &handlers.ArtworkHandler{DB: db, Storage: storage, Hub: hub}
	studentHandler := &handlers.StudentHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	subscriptionHandler := &handlers.SubscriptionHandler{DB: db}

	authLimiter := middleware.NewRateLimiter(10, 1*time.Minute)
	subscribeLimiter := middleware.NewRateLimiter(5, 1*time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/forgot-password", authLimiter.Middleware(), authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authLimiter.Middleware(), authHandler.ResetPassword)
		api.POST("/auth/refresh", authHandler.RefreshTokenHandler)

		// Shopper sessions
		api.POST("/session", sessionHandler.StartSession)

		// Catalog
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/categories", categoryHandler.GetCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)

		// Galleries
		api.GET("/artwork", artworkHandler.GetArtworks)
		api.GET("/artwork/:id", artworkHandler.GetArtwork)
		api.GET("/students", studentHandler.GetStudents)
		api.GET("/students/featured", studentHandler.GetFeaturedStudents)
		api.GET("/students/:id", studentHandler.GetStudent)

		// Subscriptions
		api.POST("/subscriptions", subscribeLimiter.Middleware(), subscriptionHandler.Subscribe)

		// Realtime feed
		api.GET("/realtime", hub.Handler)
	}

	// Session-scoped routes (require a shopper session token)
	session := api.Group("")
	session.Use(middleware.SessionMiddleware(carts))
	{
		session.GET("/cart", cartHandler.GetCart)
		session.POST("/cart", cartHandler.AddItem)
		session.PUT("/cart/items", cartHandler.UpdateItem)
		session.DELETE("/cart/items", cartHandler.RemoveItem)
		session.DELETE("/cart", cartHandler.ClearCart)

		session.POST("/checkout", orderHandler.Checkout)
	}

	// Authenticated profile routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.POST("/auth/change-password", authHandler.ChangePassword)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Student management
		admin.GET("/students", studentHandler.ListStudents)
		admin.POST("/students", studentHandler.CreateStudent)
		admin.PUT("/students/:id", studentHandler.UpdateStudent)
		admin.DELETE("/students/:id", studentHandler.DeleteStudent)
		admin.PUT("/students/:id/feature", studentHandler.SetFeatured)

		// Artwork management
		admin.POST("/artwork", artworkHandler.CreateArtwork)
		admin.PUT("/artwork/:id", artworkHandler.UpdateArtwork)
		admin.DELETE("/artwork/:id", artworkHandler.DeleteArtwork)

		// Product management
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.PUT("/products/:id/popular", productHandler.SetPopular)
		admin.GET("/products/:id/price-preview", productHandler.PricePreview)

		// Category management
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Order management
		admin.GET("/orders", orderHandler.GetOrders)
		admin.GET("/orders/export", orderHandler.ExportOrders)
		admin.GET("/orders/transitions", orderHandler.GetOrderTransitions)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

		// Subscription management
		admin.GET("/subscriptions", subscriptionHandler.ListSubscriptions)
		admin.DELETE("/subscriptions/:id", subscriptionHandler.DeleteSubscription)

		// Dashboard
		admin.GET("/dashboard", orderHandler.GetAdminDashboard)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
