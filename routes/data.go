package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sitrascs/sitras-api/controllers"
)

func RegisterDataRoutes(r *gin.Engine) {
	raw := r.Group("/api/data/raw", RequireDB())
	{
		raw.POST("", controllers.CreateRawData)
		raw.GET("", controllers.GetLatestRawData)
		raw.GET("/history", controllers.GetRawDataHistory)
		raw.DELETE("/:id", controllers.DeleteRawData)
		raw.DELETE("", controllers.DeleteAllRawData)
	}

	calibrated := r.Group("/api/data/calibrated", RequireDB())
	{
		calibrated.POST("", controllers.CreateCalibratedData)
		calibrated.GET("", controllers.GetLatestCalibratedData)
		calibrated.GET("/history", controllers.GetCalibratedHistory)
		calibrated.GET("/all", controllers.GetAllCalibratedData)
		calibrated.DELETE("/:id", controllers.DeleteCalibratedData)
		calibrated.DELETE("", controllers.DeleteAllCalibratedData)
	}

	manual := r.Group("/api/data/manual", RequireDB())
	{
		manual.POST("", controllers.CreateManualData)
		manual.GET("", controllers.GetManualDataList)
		manual.GET("/:id", controllers.GetManualDataByID)
		manual.DELETE("/:id", controllers.DeleteManualData)
		manual.DELETE("", controllers.DeleteAllManualData)
	}

	r.GET("/api/latest/calibrated", RequireDB(), controllers.GetLatestCalibratedPNK)
	r.GET("/api/calibration/jobs", RequireDB(), controllers.GetCalibrationJobs)
	r.GET("/api/health", controllers.HealthCheck)
}
