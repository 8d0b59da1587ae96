package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/controllers"
)

func AuthRoutes(server *gin.Engine, ctrl *controllers.AuthController, requireAuth gin.HandlerFunc) {
	auth := server.Group("/auth")
	{
		auth.POST("/register", ctrl.Register)
		auth.POST("/login", ctrl.Login)
		auth.POST("/forgot-password", ctrl.ForgotPassword)
		auth.PUT("/profile", requireAuth, ctrl.UpdateProfile)
	}
}
