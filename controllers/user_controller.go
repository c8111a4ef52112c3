package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/models"
)

// EnsureDefaultAdmin membuat akun admin bootstrap jika belum ada akun
// ber-role admin. Idempotent: aman dipanggil setiap startup.
func EnsureDefaultAdmin(ctx context.Context) error {
	coll := config.DB.Collection(models.CollectionUsers)

	err := coll.FindOne(ctx, bson.M{"role": models.RoleAdmin}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := models.HashPassword(config.Cfg.AdminPassword)
	if err != nil {
		return err
	}
	_, err = coll.InsertOne(ctx, models.User{
		ID:       primitive.NewObjectID(),
		Username: "admin",
		Password: hash,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	config.Log.Info("Admin default dibuat", zap.String("username", "admin"))
	return nil
}

// GetUsers -> daftar semua user tanpa field password.
func GetUsers(c *gin.Context) {
	cursor, err := config.DB.Collection(models.CollectionUsers).Find(
		c.Request.Context(), bson.D{},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	users := []models.User{}
	if err := cursor.All(c.Request.Context(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	// Password tidak ikut: field-nya bertanda json:"-".
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

// CreateUser -> tambah user baru dari dashboard admin.
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Gagal membuat user", "error": err.Error()})
		return
	}

	coll := config.DB.Collection(models.CollectionUsers)

	err := coll.FindOne(c.Request.Context(), bson.M{"username": req.Username}).Err()
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username sudah digunakan!"})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	_, err = coll.InsertOne(c.Request.Context(), models.User{
		ID:       primitive.NewObjectID(),
		Username: req.Username,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Gagal membuat user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User berhasil dibuat"})
}

// DeleteUser -> hapus user by id. Akun bernama "admin" diproteksi.
func DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User tidak ditemukan"})
		return
	}

	coll := config.DB.Collection(models.CollectionUsers)

	var target models.User
	if err := coll.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	if target.Username == "admin" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "AKSES DITOLAK: Superadmin tidak bisa dihapus!",
		})
		return
	}

	if _, err := coll.DeleteOne(c.Request.Context(), bson.M{"_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User berhasil dihapus"})
}

type changePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword -> ganti password user by username, hash ulang sebelum simpan.
func ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Gagal mengubah password", "error": err.Error()})
		return
	}

	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password minimal 6 karakter"})
		return
	}

	coll := config.DB.Collection(models.CollectionUsers)

	var user models.User
	if err := coll.FindOne(c.Request.Context(), bson.M{"username": req.Username}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal mengubah password"})
		return
	}

	hash, err := models.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal mengubah password"})
		return
	}

	_, err = coll.UpdateOne(c.Request.Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"password": hash}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal mengubah password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password berhasil diubah"})
}
