package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
