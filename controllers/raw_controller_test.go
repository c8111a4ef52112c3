package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Payload yang gagal validasi ditolak sebelum menyentuh database, jadi
// handler bisa diuji tanpa MongoDB.

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/data/raw", CreateRawData)
	r.POST("/api/data/manual", CreateManualData)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateRawDataRejectsOutOfRange(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/api/data/raw", gin.H{
		"variables": gin.H{
			"pH": 15, "suhu": 28, "kelembaban": 60,
			"N": 50, "P": 30, "K": 40, "EC": 500,
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Error saving raw data", resp["message"])
}

func TestCreateRawDataRejectsMissingVariable(t *testing.T) {
	r := newTestRouter()

	// EC tidak dikirim.
	w := postJSON(t, r, "/api/data/raw", gin.H{
		"variables": gin.H{
			"pH": 6.5, "suhu": 28, "kelembaban": 60,
			"N": 50, "P": 30, "K": 40,
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w)["success"])
}

func TestCreateRawDataAcceptsZeroValues(t *testing.T) {
	// Nilai 0 sah untuk semua variabel; required tidak boleh menolaknya.
	// Binding harus lolos; request kemudian gagal di tahap insert karena
	// test ini jalan tanpa database, dan itu bukan 400.
	r := gin.New()
	r.POST("/api/data/raw", func(c *gin.Context) {
		var input sensorDataInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": input.Variables.toVariables()})
	})

	w := postJSON(t, r, "/api/data/raw", gin.H{
		"variables": gin.H{
			"pH": 0, "suhu": 0, "kelembaban": 0,
			"N": 0, "P": 0, "K": 0, "EC": 0,
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateRawDataIgnoresClientTimestamp(t *testing.T) {
	// Field timestamp kiriman alat tidak punya tempat di DTO.
	payload := []byte(`{
		"timestamp": "2000-01-01T00:00:00Z",
		"variables": {"pH":6.5,"suhu":28,"kelembaban":60,"N":50,"P":30,"K":40,"EC":500}
	}`)

	var input sensorDataInput
	require.NoError(t, json.Unmarshal(payload, &input))

	raw, err := json.Marshal(input)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "2000-01-01")
}

func TestCreateManualDataRequiresLabel(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/api/data/manual", gin.H{
		"coordinates": "-6.2,106.8",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w)["success"])
}

func TestCreateManualDataRejectsBadInputType(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/api/data/manual", gin.H{
		"label":     "Tanah Desa Sukaraja",
		"inputType": "typo_input",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
