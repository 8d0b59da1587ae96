package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func WishlistRoutes(server *gin.Engine, ctrl *controllers.WishlistController, requireAuth gin.HandlerFunc) {
	wishlist := server.Group("/wishlist", requireAuth)
	{
		wishlist.GET("", ctrl.GetWishlist)
		wishlist.POST("", ctrl.SaveWishlist)
	}
}
