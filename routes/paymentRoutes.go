package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func PaymentRoutes(server *gin.Engine, ctrl *controllers.PaymentController, requireAuth, rateLimit gin.HandlerFunc) {
	payment := server.Group("/payment", requireAuth)
	{
		payment.GET("/client-token", ctrl.ClientToken)
		payment.POST("/checkout", rateLimit, ctrl.Checkout)
	}
}
