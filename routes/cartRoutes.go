package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func CartRoutes(server *gin.Engine, ctrl *controllers.CartController, requireAuth gin.HandlerFunc) {
	cart := server.Group("/cart", requireAuth)
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("", ctrl.SaveCart)
		cart.POST("/sync", ctrl.SyncCart)
	}
}
