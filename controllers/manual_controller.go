package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/models"
)

// manualVariablesInput: semua variabel opsional (default 0), rentang tetap
// dijaga kalau diisi.
type manualVariablesInput struct {
	PH         *float64 `json:"pH" binding:"omitempty,gte=0,lte=14"`
	Suhu       *float64 `json:"suhu" binding:"omitempty,gte=0,lte=100"`
	Kelembaban *float64 `json:"kelembaban" binding:"omitempty,gte=0,lte=100"`
	N          *float64 `json:"N" binding:"omitempty,gte=0,lte=1000"`
	P          *float64 `json:"P" binding:"omitempty,gte=0,lte=1000"`
	K          *float64 `json:"K" binding:"omitempty,gte=0,lte=1000"`
	EC         *float64 `json:"EC" binding:"omitempty,gte=0,lte=2000"`
}

func (in *manualVariablesInput) toVariables() models.Variables {
	var v models.Variables
	if in == nil {
		return v
	}
	if in.PH != nil {
		v.PH = *in.PH
	}
	if in.Suhu != nil {
		v.Suhu = *in.Suhu
	}
	if in.Kelembaban != nil {
		v.Kelembaban = *in.Kelembaban
	}
	if in.N != nil {
		v.N = *in.N
	}
	if in.P != nil {
		v.P = *in.P
	}
	if in.K != nil {
		v.K = *in.K
	}
	if in.EC != nil {
		v.EC = *in.EC
	}
	return v
}

type manualDataInput struct {
	Label              string                `json:"label" binding:"required"`
	Coordinates        string                `json:"coordinates"`
	SourceCalibratedID string                `json:"sourceCalibratedId"`
	Variables          *manualVariablesInput `json:"variables"`
	InputType          string                `json:"inputType" binding:"omitempty,oneof=manual_input from_calibrated"`
}

// CreateManualData -> simpan entri lahan manual (label + koordinat +
// variabel opsional).
func CreateManualData(c *gin.Context) {
	var input manualDataInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error saving manual data",
			"error":   err.Error(),
		})
		return
	}

	manual := models.ManualData{
		ID:          primitive.NewObjectID(),
		Label:       input.Label,
		Coordinates: input.Coordinates,
		Variables:   input.Variables.toVariables(),
		InputType:   input.InputType,
		Timestamp:   time.Now().UTC(),
	}
	if manual.InputType == "" {
		manual.InputType = models.InputTypeFromCalibrated
	}
	if input.SourceCalibratedID != "" {
		sourceID, err := primitive.ObjectIDFromHex(input.SourceCalibratedID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Error saving manual data",
				"error":   "sourceCalibratedId tidak valid",
			})
			return
		}
		manual.SourceCalibratedID = &sourceID
	}

	if _, err := config.DB.Collection(models.CollectionManualData).InsertOne(c.Request.Context(), manual); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error saving manual data",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Manual data saved successfully",
		"data":    manual,
	})
}

// GetManualDataList -> daftar entri manual untuk sidebar, terbaru dulu.
func GetManualDataList(c *gin.Context) {
	list := []models.ManualData{}
	if err := findHistory(c.Request.Context(), models.CollectionManualData, parseLimit(c), &list); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error fetching manual data",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

// GetManualDataByID -> detail 1 entri manual.
func GetManualDataByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Manual data not found"})
		return
	}

	var manual models.ManualData
	err = config.DB.Collection(models.CollectionManualData).
		FindOne(c.Request.Context(), bson.M{"_id": id}).
		Decode(&manual)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Manual data not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching manual detail", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": manual})
}

// DeleteManualData -> hapus 1 entri manual by id.
func DeleteManualData(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Manual data not found"})
		return
	}
	deleted, err := deleteByID(c.Request.Context(), models.CollectionManualData, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting manual data", "error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Manual data not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Manual data deleted successfully"})
}

// DeleteAllManualData -> hapus semua entri manual.
func DeleteAllManualData(c *gin.Context) {
	if err := deleteAll(c.Request.Context(), models.CollectionManualData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting all manual data", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All manual data deleted successfully"})
}
