package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func ProductRoutes(server *gin.Engine, ctrl *controllers.ProductController, requireAuth, requireAdmin gin.HandlerFunc) {
	server.GET("/product", ctrl.GetProducts)
	server.GET("/product/photo/:pid", ctrl.ProductPhoto)
	server.GET("/product/:slug", ctrl.GetProductBySlug)

	admin := server.Group("/product", requireAuth, requireAdmin)
	{
		admin.POST("", ctrl.CreateProduct)
		admin.PUT("/:pid", ctrl.UpdateProduct)
		admin.DELETE("/:pid", ctrl.DeleteProduct)
	}
}
