package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitrascs/sitras-api/config"
)

const requestIDHeader = "X-Request-ID"

// RequestID memberi setiap request sebuah id untuk korelasi log; id dari
// client dipertahankan kalau ada.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// RequireDB menolak request dengan 503 selama koneksi database belum
// tersedia. Server tetap jalan tanpa database, jadi handler yang
// menyentuh collection butuh penjagaan ini.
func RequireDB() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.DB == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Database tidak tersedia",
			})
			return
		}
		c.Next()
	}
}
