package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sitrascs/sitras-api/controllers"
)

func RegisterRecommendationRoutes(r *gin.Engine) {
	// Preview hanya memanggil layanan ML, tidak butuh database.
	r.POST("/api/recommendation/input", controllers.PreviewRecommendation)

	api := r.Group("/api/recommendation", RequireDB())
	{
		api.POST("", controllers.CreateRecommendation)
		api.POST("/ml", controllers.SaveMLRecommendation)
		api.GET("/history", controllers.GetRecommendationHistory)
		api.DELETE("/:id", controllers.DeleteRecommendation)
	}
}
