package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sitrascs/sitras-api/controllers"
)

func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/api/login", RequireDB(), controllers.Login)

	api := r.Group("/api/users", RequireDB())
	{
		api.GET("", controllers.GetUsers)
		api.POST("", controllers.CreateUser)
		api.PUT("/change-password", controllers.ChangePassword)
		api.DELETE("/:id", controllers.DeleteUser)
	}
}
