package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/models"
)

// CreateCalibratedData -> simpan data kalibrasi manual. Jalur normalnya
// lewat worker kalibrasi; endpoint ini disediakan untuk pengisian langsung.
func CreateCalibratedData(c *gin.Context) {
	var input sensorDataInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error saving calibrated data",
			"error":   err.Error(),
		})
		return
	}

	calibrated := models.CalibratedData{
		ID:        primitive.NewObjectID(),
		Variables: input.Variables.toVariables(),
		Timestamp: time.Now().UTC(),
	}
	if _, err := config.DB.Collection(models.CollectionCalibratedData).InsertOne(c.Request.Context(), calibrated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error saving calibrated data",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Calibrated data saved", "data": calibrated})
}

// GetLatestCalibratedData -> ambil 1 data kalibrasi terbaru.
func GetLatestCalibratedData(c *gin.Context) {
	var calibrated models.CalibratedData
	if err := findLatest(c.Request.Context(), models.CollectionCalibratedData, &calibrated); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No calibrated data found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching calibrated data", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": calibrated})
}

// GetCalibratedHistory -> history data kalibrasi, terbaru dulu.
func GetCalibratedHistory(c *gin.Context) {
	history := []models.CalibratedData{}
	if err := findHistory(c.Request.Context(), models.CollectionCalibratedData, parseLimit(c), &history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching calibrated history", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

// GetAllCalibratedData -> daftar data kalibrasi untuk peta/ekspor; hanya
// field id, timestamp, dan variables yang diambil agar tetap ringan.
func GetAllCalibratedData(c *gin.Context) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(parseLimit(c)).
		SetProjection(bson.D{
			{Key: "timestamp", Value: 1},
			{Key: "variables", Value: 1},
		})

	cursor, err := config.DB.Collection(models.CollectionCalibratedData).Find(c.Request.Context(), bson.D{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching all calibrated data", "error": err.Error()})
		return
	}

	data := []models.CalibratedData{}
	if err := cursor.All(c.Request.Context(), &data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching all calibrated data", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// GetLatestCalibratedPNK -> P/N/K terbaru untuk auto-populate form rekomendasi.
func GetLatestCalibratedPNK(c *gin.Context) {
	var calibrated models.CalibratedData
	if err := findLatest(c.Request.Context(), models.CollectionCalibratedData, &calibrated); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No data found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching latest data", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"P":         calibrated.Variables.P,
			"N":         calibrated.Variables.N,
			"K":         calibrated.Variables.K,
			"timestamp": calibrated.Timestamp,
		},
	})
}

// DeleteCalibratedData -> hapus 1 data kalibrasi by id.
func DeleteCalibratedData(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Data not found"})
		return
	}
	deleted, err := deleteByID(c.Request.Context(), models.CollectionCalibratedData, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting data", "error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Data not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deleted successfully"})
}

// DeleteAllCalibratedData -> hapus semua data kalibrasi.
func DeleteAllCalibratedData(c *gin.Context) {
	if err := deleteAll(c.Request.Context(), models.CollectionCalibratedData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting all data", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All calibrated data deleted"})
}
