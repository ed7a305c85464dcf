package routes

import (
	"gorent/internal/handlers"
	"gorent/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, jwtSecret string) {
	users := r.Group("/users")
	users.Use(middleware.AuthRequired(jwtSecret))
	{
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
	}

	admin := users.Group("")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("", userHandler.ListUsers)
		admin.PATCH("/:id/status", userHandler.SetUserStatus)
		admin.DELETE("/:id", userHandler.DeleteUser)
	}
}
