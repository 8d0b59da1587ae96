package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
	"github.com/shopkart-dev/shopkart-api/initializers"
	"github.com/shopkart-dev/shopkart-api/middlewares"
	"github.com/shopkart-dev/shopkart-api/payment"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"github.com/shopkart-dev/shopkart-api/routes"
	"github.com/shopkart-dev/shopkart-api/services"
	"golang.org/x/time/rate"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectToDB()
}

func main() {
	logger := initializers.InitLogger()

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}

	gatewayConfig, err := payment.ConfigFromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("Payment gateway configuration error")
	}
	gateway := payment.New(gatewayConfig)

	users := repositories.NewMongoUserRepository(initializers.DB)
	products := repositories.NewMongoProductRepository(initializers.DB)
	carts := repositories.NewMongoCartRepository(initializers.DB)
	wishlists := repositories.NewMongoWishlistRepository(initializers.DB)
	orders := repositories.NewMongoOrderRepository(initializers.DB)

	cartService := services.NewCartService(carts, wishlists, products)
	orderService := services.NewOrderService(orders)
	checkoutService := services.NewCheckoutService(products, orders, gateway, logger)

	requireAuth := middlewares.RequireAuth(jwtSecret)
	requireAdmin := middlewares.RequireAdmin(users)
	checkoutRate := middlewares.RateLimit(rate.Every(time.Second), 5)

	server := gin.Default()
	server.Use(middlewares.RequestID())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_URL")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server, controllers.NewAuthController(users, jwtSecret, logger), requireAuth)
	routes.ProductRoutes(server, controllers.NewProductController(products, logger), requireAuth, requireAdmin)
	routes.CartRoutes(server, controllers.NewCartController(cartService, logger), requireAuth)
	routes.WishlistRoutes(server, controllers.NewWishlistController(cartService, logger), requireAuth)
	routes.PaymentRoutes(server, controllers.NewPaymentController(checkoutService, users, logger), requireAuth, checkoutRate)
	routes.OrderRoutes(server, controllers.NewOrderController(orderService, logger), requireAuth, requireAdmin)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := server.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}
