package config

import (
	"os"
	"strings"
)

// Cfg menyimpan konfigurasi aktif setelah Load() dipanggil dari main.
var Cfg *Config

type Config struct {
	ServerAddr    string
	MongoURI      string
	MongoDatabase string
	CORSOrigins   []string
	LogLevel      string

	// URL API Machine Learning (Hugging Face)
	MLKalibrasiURL   string
	MLRekomendasiURL string

	JWTSecret     string
	AdminPassword string
}

func Load() *Config {
	cfg := &Config{
		ServerAddr:       getEnv("SERVER_ADDR", ":3001"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "pupuk-sdlp"),
		CORSOrigins:      splitComma(getEnv("CORS_ORIGINS", "*")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MLKalibrasiURL:   getEnv("ML_KALIBRASI_URL", "https://sauqing-api-ml-sitras.hf.space/predict"),
		MLRekomendasiURL: getEnv("ML_REKOMENDASI_URL", "https://sauqing-api-ml-sitras.hf.space/predict_rekomendasi"),
		JWTSecret:        getEnv("JWT_SECRET", "sitras-dev-secret"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin123"),
	}
	Cfg = cfg
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
