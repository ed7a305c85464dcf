package routes

import (
	"gorent/internal/handlers"
	"gorent/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/verify-email", authHandler.VerifyEmail)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthRequired(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/send-verification", authHandler.SendEmailVerification)
		protected.POST("/change-password", authHandler.ChangePassword)
	}
}
