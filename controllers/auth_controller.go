package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login -> autentikasi username/password, balas token JWT.
// Username tidak dikenal dan password salah sengaja diberi pesan yang sama
// supaya tidak bisa dipakai menebak akun mana yang ada.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Username dan password wajib diisi",
			"error":   err.Error(),
		})
		return
	}

	var user models.User
	err := config.DB.Collection(models.CollectionUsers).
		FindOne(c.Request.Context(), bson.M{"username": req.Username}).
		Decode(&user)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Username atau Password salah"})
		return
	}

	if !user.ComparePassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Username atau Password salah"})
		return
	}

	token, err := signToken(user)
	if err != nil {
		config.Log.Error("Gagal membuat token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal membuat token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
		"token": token,
	})
}

func signToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.Hex(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Cfg.JWTSecret))
}
