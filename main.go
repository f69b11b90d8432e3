package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"backend/internal/chatbot"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/payment"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("⚠️ category index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("⚠️ cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}

	gateway := payment.NewGateway(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret)
	llm := chatbot.NewLLM(config.AppEnv.OpenAIAPIKey)

	userAuth := middleware.UserAuth(config.AppEnv.JWTSecret)
	adminOnly := middleware.RoleGuard(config.AppEnv.JWTSecret, models.RoleAdmin)
	sellerOrAdmin := middleware.RoleGuard(config.AppEnv.JWTSecret, models.RoleSeller, models.RoleAdmin)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", handlers.Health())

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", userAuth, handlers.GetMe(db))
	r.PUT("/auth/profile", userAuth, handlers.UpdateProfile(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/featured/list", handlers.GetFeaturedProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.POST("/products/:id/review", userAuth, handlers.AddReview(db))
	r.POST("/products", sellerOrAdmin, handlers.CreateProduct(db))
	r.PUT("/products/:id", sellerOrAdmin, handlers.UpdateProduct(db))

	r.GET("/categories", handlers.GetCategories(db))
	r.GET("/categories/:slug", handlers.GetCategoryBySlug(db))
	r.POST("/categories", adminOnly, handlers.CreateCategory(db))
	r.PUT("/categories/:id", adminOnly, handlers.UpdateCategory(db))

	cart := r.Group("/cart")
	cart.Use(userAuth)
	{
		cart.GET("", handlers.GetCart(db))
		cart.POST("/add", handlers.AddToCart(db))
		cart.PUT("/update", handlers.UpdateCartItem(db))
		cart.DELETE("/remove/:productId", handlers.RemoveFromCart(db))
		cart.DELETE("/clear", handlers.ClearCart(db))
	}

	orders := r.Group("/orders")
	orders.Use(userAuth)
	{
		orders.POST("", handlers.CreateOrder(db))
		orders.GET("/my-orders", handlers.GetMyOrders(db))
		orders.GET("/:id", handlers.GetOrder(db))
		orders.PUT("/:id/cancel", handlers.CancelOrder(db))
		orders.PUT("/:id/status", adminOnly, handlers.UpdateOrderStatus(db))
		orders.GET("/admin/all", adminOnly, handlers.GetAllOrders(db))
	}

	r.GET("/payment/key", handlers.GetPaymentKey(config.AppEnv.RazorpayKeyID))
	r.GET("/payment/link-success/:id", handlers.PaymentLinkCallback(
		config.AppEnv.RazorpayKeySecret,
		config.AppEnv.ClientURL,
	))

	pay := r.Group("/payment")
	pay.Use(userAuth)
	{
		pay.POST("/create-order", handlers.CreatePaymentOrder(db, gateway, config.AppEnv.RazorpayKeyID))
		pay.POST("/verify", handlers.VerifyPayment(db, config.AppEnv.RazorpayKeySecret))
		pay.POST("/generate-link", handlers.GeneratePaymentLink(gateway, config.AppEnv.ClientURL))
		pay.POST("/generate-cart-link", handlers.GenerateCartLink(db, gateway, config.AppEnv.ClientURL))
		pay.GET("/link-status/:id", handlers.GetPaymentLinkStatus(gateway))
	}

	r.POST("/chatbot", middleware.OptionalAuth(config.AppEnv.JWTSecret), handlers.Chat(db, llm))

	admin := r.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.GET("/stats", handlers.GetAdminStats(db))
		admin.GET("/users", handlers.GetUsers(db))
		admin.PUT("/users/:id/role", handlers.UpdateUserRole(db))
		admin.POST("/seed", handlers.SeedDatabase(db, config.AppEnv.AdminEmail, config.AppEnv.AdminPassword))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
