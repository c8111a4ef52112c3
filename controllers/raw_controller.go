package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/models"
	"github.com/sitrascs/sitras-api/worker"
)

// ======================= INPUT SHAPES =======================

// variablesInput memvalidasi requiredness + rentang di boundary. Pointer
// dipakai supaya nilai 0 yang sah tetap lolos required.
type variablesInput struct {
	PH         *float64 `json:"pH" binding:"required,gte=0,lte=14"`
	Suhu       *float64 `json:"suhu" binding:"required,gte=0,lte=100"`
	Kelembaban *float64 `json:"kelembaban" binding:"required,gte=0,lte=100"`
	N          *float64 `json:"N" binding:"required,gte=0,lte=1000"`
	P          *float64 `json:"P" binding:"required,gte=0,lte=1000"`
	K          *float64 `json:"K" binding:"required,gte=0,lte=1000"`
	EC         *float64 `json:"EC" binding:"required,gte=0,lte=2000"`
}

func (in variablesInput) toVariables() models.Variables {
	return models.Variables{
		PH:         *in.PH,
		Suhu:       *in.Suhu,
		Kelembaban: *in.Kelembaban,
		N:          *in.N,
		P:          *in.P,
		K:          *in.K,
		EC:         *in.EC,
	}
}

type sensorDataInput struct {
	Variables variablesInput `json:"variables" binding:"required"`
	// timestamp kiriman alat sengaja tidak punya field di sini:
	// timestamp selalu diisi server.
}

// ======================= RAW DATA =======================

// CreateRawData -> simpan pembacaan sensor mentah, lalu antrikan kalibrasi ML.
// Response tidak menunggu kalibrasi selesai.
func CreateRawData(c *gin.Context) {
	var input sensorDataInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error saving raw data",
			"error":   err.Error(),
		})
		return
	}

	raw := models.RawData{
		ID:        primitive.NewObjectID(),
		Variables: input.Variables.toVariables(),
		Timestamp: time.Now().UTC(),
	}

	if _, err := config.DB.Collection(models.CollectionRawData).InsertOne(c.Request.Context(), raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error saving raw data",
			"error":   err.Error(),
		})
		return
	}

	if CalibrationWorker != nil {
		if err := CalibrationWorker.Enqueue(c.Request.Context(), raw); err != nil {
			// Raw data tetap tersimpan; job kalibrasi yang gagal dicatat saja.
			config.Log.Error("Gagal mengantrikan kalibrasi", zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Raw data saved successfully (calibration queued in background)",
		"data":    raw,
	})
}

// GetLatestRawData -> ambil 1 data mentah terbaru.
func GetLatestRawData(c *gin.Context) {
	var raw models.RawData
	if err := findLatest(c.Request.Context(), models.CollectionRawData, &raw); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No raw data found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching raw data", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": raw})
}

// GetRawDataHistory -> history data mentah, terbaru dulu, limit default 50.
func GetRawDataHistory(c *gin.Context) {
	history := []models.RawData{}
	if err := findHistory(c.Request.Context(), models.CollectionRawData, parseLimit(c), &history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching raw history", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

// DeleteRawData -> hapus 1 data mentah by id.
func DeleteRawData(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Raw data not found"})
		return
	}
	deleted, err := deleteByID(c.Request.Context(), models.CollectionRawData, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting raw data", "error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Raw data not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Raw data deleted successfully"})
}

// DeleteAllRawData -> hapus semua data mentah, tanpa konfirmasi.
func DeleteAllRawData(c *gin.Context) {
	if err := deleteAll(c.Request.Context(), models.CollectionRawData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting all raw data", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All raw data deleted successfully"})
}

// ======================= CALIBRATION JOBS =======================

// GetCalibrationJobs -> status antrian kalibrasi (pending/done/failed),
// terbaru dulu. Dipakai untuk memantau data mentah yang gagal terkalibrasi.
func GetCalibrationJobs(c *gin.Context) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(parseLimit(c))

	cursor, err := config.DB.Collection(worker.CollectionCalibrationJobs).Find(c.Request.Context(), bson.D{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching calibration jobs", "error": err.Error()})
		return
	}

	jobs := []worker.CalibrationJob{}
	if err := cursor.All(c.Request.Context(), &jobs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching calibration jobs", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": jobs})
}
