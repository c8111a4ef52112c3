package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/controllers"
	"github.com/sitrascs/sitras-api/ml"
	"github.com/sitrascs/sitras-api/routes"
	"github.com/sitrascs/sitras-api/worker"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	if err := config.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer config.Log.Sync()

	// Koneksi database sengaja tidak fatal: server tetap jalan dan request
	// yang butuh database gagal satu per satu.
	if err := config.ConnectDB(cfg); err != nil {
		config.Log.Error("MongoDB connection error", zap.Error(err))
	} else {
		config.Log.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))
	}

	controllers.MLClient = ml.NewClient(cfg.MLKalibrasiURL, cfg.MLRekomendasiURL, config.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.DB != nil {
		bootCtx, bootCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := controllers.EnsureDefaultAdmin(bootCtx); err != nil {
			config.Log.Error("Gagal membuat admin default", zap.Error(err))
		}
		bootCancel()

		w := worker.NewCalibrationWorker(config.DB, controllers.MLClient, config.Log)
		w.Start(ctx)
		defer w.Stop()
		controllers.CalibrationWorker = w
	}

	r := gin.Default()
	r.Use(routes.RequestID())
	r.Use(cors.New(corsConfig(cfg)))

	routes.RegisterAuthRoutes(r)
	routes.RegisterDataRoutes(r)
	routes.RegisterRecommendationRoutes(r)

	config.Log.Info("Server running", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		config.Log.Fatal("Server stopped", zap.Error(err))
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:       5 * time.Minute,
	}
	for _, origin := range cfg.CORSOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.CORSOrigins
	return c
}
