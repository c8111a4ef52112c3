package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/ml"
	"github.com/sitrascs/sitras-api/models"
)

// recommendationRequest menerima P/N/K sebagai angka atau string angka;
// frontend lama mengirim keduanya, jadi koersi dilakukan di sini.
type recommendationRequest struct {
	P            interface{} `json:"P" binding:"required"`
	N            interface{} `json:"N" binding:"required"`
	K            interface{} `json:"K" binding:"required"`
	JenisTanaman string      `json:"jenis_tanaman"`
	TargetPadi   string      `json:"target_padi"`
}

func (r recommendationRequest) toMLRequest() (ml.RecommendationRequest, error) {
	p, err := coerceFloat(r.P)
	if err != nil {
		return ml.RecommendationRequest{}, err
	}
	n, err := coerceFloat(r.N)
	if err != nil {
		return ml.RecommendationRequest{}, err
	}
	k, err := coerceFloat(r.K)
	if err != nil {
		return ml.RecommendationRequest{}, err
	}

	jenis := r.JenisTanaman
	if jenis == "" {
		jenis = "Padi"
	}
	return ml.RecommendationRequest{
		P:            p,
		N:            n,
		K:            k,
		JenisTanaman: jenis,
		TargetPadi:   r.TargetPadi,
	}, nil
}

// PreviewRecommendation -> tab "Input": panggil ML, TANPA simpan ke DB.
func PreviewRecommendation(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error calling ML recommendation engine",
			"error":   err.Error(),
		})
		return
	}

	mlReq, err := req.toMLRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error calling ML recommendation engine",
			"error":   err.Error(),
		})
		return
	}

	data, err := MLClient.Recommend(c.Request.Context(), mlReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error calling ML recommendation engine",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// CreateRecommendation -> tab "Data" / dashboard: panggil ML lalu simpan
// history rekomendasi. Kalau ML gagal, tidak ada yang disimpan.
func CreateRecommendation(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error generating recommendation",
			"error":   err.Error(),
		})
		return
	}

	mlReq, err := req.toMLRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error generating recommendation",
			"error":   err.Error(),
		})
		return
	}

	data, err := MLClient.Recommend(c.Request.Context(), mlReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Error generating recommendation",
			"error":   err.Error(),
		})
		return
	}

	rec := models.Recommendation{
		ID: primitive.NewObjectID(),
		Input: models.RecommendationInput{
			P:            mlReq.P,
			N:            mlReq.N,
			K:            mlReq.K,
			JenisTanaman: mlReq.JenisTanaman,
			TargetPadi:   ConvertTargetPadi(req.TargetPadi),
		},
		Recommendation:    data.Recommendations,
		Reasons:           data.Reasons,
		Tips:              data.Tips,
		ConversionResults: data.ConversionResults,
		Timestamp:         time.Now().UTC(),
	}
	if _, err := config.DB.Collection(models.CollectionRecommendation).InsertOne(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error generating recommendation",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recommendation generated and saved",
		"data": gin.H{
			"recommendation":     rec.Recommendation,
			"timestamp":          rec.Timestamp,
			"conversion_results": rec.ConversionResults,
		},
	})
}

// saveMLRequest adalah hasil ML yang sudah dihitung di luar (trigger
// eksternal), disimpan langsung tanpa memanggil ML lagi.
type saveMLRequest struct {
	Input             *recommendationRequest   `json:"input"`
	Recommendations   models.Dosage            `json:"recommendations"`
	Reasons           models.Reasons           `json:"reasons"`
	Tips              string                   `json:"tips"`
	ConversionResults models.ConversionResults `json:"conversion_results"`
}

// SaveMLRecommendation -> simpan hasil ML eksternal ke history.
func SaveMLRecommendation(c *gin.Context) {
	var req saveMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error saving", "error": err.Error()})
		return
	}
	if req.Input == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Input data missing"})
		return
	}

	mlReq, err := req.Input.toMLRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error saving", "error": err.Error()})
		return
	}

	rec := models.Recommendation{
		ID: primitive.NewObjectID(),
		Input: models.RecommendationInput{
			P:            mlReq.P,
			N:            mlReq.N,
			K:            mlReq.K,
			JenisTanaman: mlReq.JenisTanaman,
			TargetPadi:   ConvertTargetPadi(req.Input.TargetPadi),
		},
		Recommendation:    req.Recommendations,
		Reasons:           req.Reasons,
		Tips:              req.Tips,
		ConversionResults: req.ConversionResults,
		Timestamp:         time.Now().UTC(),
	}
	if _, err := config.DB.Collection(models.CollectionRecommendation).InsertOne(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error saving", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Saved successfully", "data": rec})
}

// GetRecommendationHistory -> history rekomendasi, terbaru dulu.
func GetRecommendationHistory(c *gin.Context) {
	history := []models.Recommendation{}
	if err := findHistory(c.Request.Context(), models.CollectionRecommendation, parseLimit(c), &history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching history", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

// DeleteRecommendation -> hapus 1 history rekomendasi by id.
func DeleteRecommendation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Recommendation not found"})
		return
	}
	deleted, err := deleteByID(c.Request.Context(), models.CollectionRecommendation, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting recommendation", "error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Recommendation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recommendation deleted"})
}
