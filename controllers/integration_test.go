//go:build integration

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/ml"
	"github.com/sitrascs/sitras-api/models"
)

// Test di file ini butuh MongoDB hidup; set MONGO_URI untuk menjalankannya:
//
//	MONGO_URI=mongodb://localhost:27017 go test -tags=integration ./controllers/

func setupIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("MONGO_URI") == "" {
		t.Skip("Skipping integration test: MONGO_URI not set")
	}
	os.Setenv("MONGO_DATABASE", "sitras_test")

	cfg := config.Load()
	if err := config.ConnectDB(cfg); err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, config.DB.Collection(models.CollectionUsers).Drop(ctx))
	require.NoError(t, config.DB.Collection(models.CollectionRawData).Drop(ctx))
	require.NoError(t, config.DB.Collection(models.CollectionRecommendation).Drop(ctx))
	require.NoError(t, EnsureDefaultAdmin(ctx))
}

func newIntegrationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/login", Login)
	r.DELETE("/api/users/:id", DeleteUser)
	r.POST("/api/data/raw", CreateRawData)
	r.GET("/api/data/raw/history", GetRawDataHistory)
	r.POST("/api/recommendation", CreateRecommendation)
	return r
}

// stubMLClient mengarahkan MLClient ke server palsu selama satu test.
func stubMLClient(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	old := MLClient
	MLClient = ml.NewClient(srv.URL, srv.URL, zap.NewNop())
	t.Cleanup(func() {
		MLClient = old
		srv.Close()
	})
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginFailureMessagesAreIdentical(t *testing.T) {
	setupIntegration(t)
	r := newIntegrationRouter()

	wrongPassword := doJSON(r, "POST", "/api/login", gin.H{"username": "admin", "password": "bukan-passwordnya"})
	unknownUser := doJSON(r, "POST", "/api/login", gin.H{"username": "tidak-ada", "password": "apapun"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestLoginSuccessReturnsSignedToken(t *testing.T) {
	setupIntegration(t)
	r := newIntegrationRouter()

	w := doJSON(r, "POST", "/api/login", gin.H{"username": "admin", "password": config.Cfg.AdminPassword})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestDeleteAdminIsForbidden(t *testing.T) {
	setupIntegration(t)
	r := newIntegrationRouter()

	ctx := context.Background()
	var admin models.User
	require.NoError(t, config.DB.Collection(models.CollectionUsers).
		FindOne(ctx, bson.M{"username": "admin"}).Decode(&admin))

	w := doJSON(r, "DELETE", "/api/users/"+admin.ID.Hex(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Akun admin masih utuh.
	err := config.DB.Collection(models.CollectionUsers).
		FindOne(ctx, bson.M{"username": "admin"}).Err()
	assert.NoError(t, err)
}

func TestCreateRawDataAssignsServerTimestamp(t *testing.T) {
	setupIntegration(t)
	r := newIntegrationRouter()

	before := time.Now().UTC().Add(-time.Second)

	// Timestamp kiriman alat harus diabaikan.
	w := doJSON(r, "POST", "/api/data/raw", gin.H{
		"timestamp": "2000-01-01T00:00:00Z",
		"variables": gin.H{
			"pH": 6.5, "suhu": 28, "kelembaban": 60,
			"N": 50, "P": 30, "K": 40, "EC": 500,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var raw models.RawData
	require.NoError(t, config.DB.Collection(models.CollectionRawData).
		FindOne(context.Background(), bson.D{}).Decode(&raw))
	assert.True(t, raw.Timestamp.After(before), "timestamp diisi server, bukan dari payload")
}

func TestRawHistoryRespectsLimit(t *testing.T) {
	setupIntegration(t)
	r := newIntegrationRouter()

	for i := 0; i < 8; i++ {
		w := doJSON(r, "POST", "/api/data/raw", gin.H{
			"variables": gin.H{
				"pH": 6.5, "suhu": 28, "kelembaban": 60,
				"N": float64(i), "P": 30, "K": 40, "EC": 500,
			},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest("GET", "/api/data/raw/history?limit=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.RawData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.LessOrEqual(t, len(resp.Data), 5)

	// Urut terbaru dulu.
	for i := 1; i < len(resp.Data); i++ {
		assert.False(t, resp.Data[i-1].Timestamp.Before(resp.Data[i].Timestamp))
	}
}

func TestCreateRecommendationPersistsConvertedTarget(t *testing.T) {
	setupIntegration(t)
	stubMLClient(t, func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(gin.H{
			"success": true,
			"data": gin.H{
				"recommendations": gin.H{"urea": 200.0, "sp36": 100.0, "kcl": 50.0},
				"reasons":         gin.H{"info": "Dosis standar"},
				"tips":            "Aplikasikan bertahap",
				"conversion_results": gin.H{
					"status_p": "sedang", "status_k": "rendah",
					"p2o5": 12.5, "k2o": 8.0,
				},
			},
		})
	})
	r := newIntegrationRouter()

	w := doJSON(r, "POST", "/api/recommendation", gin.H{
		"P": 10, "N": 20, "K": 15,
		"jenis_tanaman": "Padi",
		"target_padi":   "6-8",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec models.Recommendation
	require.NoError(t, config.DB.Collection(models.CollectionRecommendation).
		FindOne(context.Background(), bson.D{}).Decode(&rec))
	assert.Equal(t, 2, rec.Input.TargetPadi, `"6-8" disimpan sebagai enum 2`)
	assert.Equal(t, 10.0, rec.Input.P)
	assert.Equal(t, 20.0, rec.Input.N)
	assert.Equal(t, 15.0, rec.Input.K)
	assert.Equal(t, "Padi", rec.Input.JenisTanaman)
	assert.Equal(t, 200.0, rec.Recommendation.Urea)
	assert.Equal(t, "sedang", rec.ConversionResults.StatusP)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestCreateRecommendationPersistsNothingOnMLFailure(t *testing.T) {
	setupIntegration(t)
	stubMLClient(t, func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(gin.H{"success": false, "message": "model error"})
	})
	r := newIntegrationRouter()

	w := doJSON(r, "POST", "/api/recommendation", gin.H{
		"P": 10, "N": 20, "K": 15, "target_padi": "6-8",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// ML gagal: history tetap kosong.
	err := config.DB.Collection(models.CollectionRecommendation).
		FindOne(context.Background(), bson.D{}).Err()
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
