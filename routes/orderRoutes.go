package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func OrderRoutes(server *gin.Engine, ctrl *controllers.OrderController, requireAuth, requireAdmin gin.HandlerFunc) {
	orders := server.Group("/orders", requireAuth)
	{
		orders.GET("/mine", ctrl.GetMyOrders)
		orders.GET("/all", requireAdmin, ctrl.GetAllOrders)
		orders.PUT("/:orderId/status", requireAdmin, ctrl.UpdateOrderStatus)
	}
}
