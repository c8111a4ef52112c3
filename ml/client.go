package ml

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/models"
)

var (
	// ErrCalibrationFailed menandai kegagalan panggilan model kalibrasi.
	ErrCalibrationFailed = errors.New("kalibrasi ML gagal")
	// ErrRecommendationFailed menandai kegagalan panggilan model rekomendasi,
	// termasuk response tanpa envelope atau dengan success=false.
	ErrRecommendationFailed = errors.New("rekomendasi ML gagal")
)

// Client membungkus dua endpoint ML eksternal (kalibrasi dan rekomendasi).
// Setiap panggilan adalah satu HTTP POST dengan timeout 10 detik tanpa retry.
type Client struct {
	http           *resty.Client
	kalibrasiURL   string
	rekomendasiURL string
	logger         *zap.Logger
}

func NewClient(kalibrasiURL, rekomendasiURL string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:           httpClient,
		kalibrasiURL:   kalibrasiURL,
		rekomendasiURL: rekomendasiURL,
		logger:         logger,
	}
}

// CalibrationRequest adalah payload model kalibrasi (pH, N, P, K mentah).
type CalibrationRequest struct {
	PH float64 `json:"pH"`
	N  float64 `json:"N"`
	P  float64 `json:"P"`
	K  float64 `json:"K"`
}

// CalibrationResult adalah nilai hasil kalibrasi.
type CalibrationResult struct {
	PHCalibrated float64 `json:"pH_calibrated"`
	NCalibrated  float64 `json:"N_calibrated"`
	PCalibrated  float64 `json:"P_calibrated"`
	KCalibrated  float64 `json:"K_calibrated"`
}

// Calibrate mengirim variabel mentah ke model kalibrasi.
func (c *Client) Calibrate(ctx context.Context, req CalibrationRequest) (CalibrationResult, error) {
	var result CalibrationResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(c.kalibrasiURL)
	if err != nil {
		return CalibrationResult{}, fmt.Errorf("%w: %v", ErrCalibrationFailed, err)
	}
	if resp.IsError() {
		return CalibrationResult{}, fmt.Errorf("%w: status %d", ErrCalibrationFailed, resp.StatusCode())
	}
	return result, nil
}

// RecommendationRequest adalah payload model rekomendasi. TargetPadi dikirim
// dalam bentuk string apa adanya ("<6", "6-8", ">8", "N/A").
type RecommendationRequest struct {
	P            float64 `json:"P"`
	N            float64 `json:"N"`
	K            float64 `json:"K"`
	JenisTanaman string  `json:"jenis_tanaman"`
	TargetPadi   string  `json:"target_padi"`
}

// RecommendationData adalah isi field data pada envelope response ML.
type RecommendationData struct {
	Recommendations   models.Dosage            `json:"recommendations"`
	Reasons           models.Reasons           `json:"reasons"`
	Tips              string                   `json:"tips"`
	ConversionResults models.ConversionResults `json:"conversion_results"`
}

type recommendationEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *RecommendationData `json:"data"`
}

// Recommend mengirim input pemupukan ke model rekomendasi. Envelope yang
// hilang atau success=false dianggap gagal walaupun HTTP-nya 200.
func (c *Client) Recommend(ctx context.Context, req RecommendationRequest) (*RecommendationData, error) {
	var envelope recommendationEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&envelope).
		Post(c.rekomendasiURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecommendationFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrRecommendationFailed, resp.StatusCode())
	}
	if !envelope.Success || envelope.Data == nil {
		c.logger.Warn("Response ML rekomendasi tidak sukses",
			zap.Bool("success", envelope.Success),
			zap.String("message", envelope.Message),
		)
		return nil, fmt.Errorf("%w: response not success", ErrRecommendationFailed)
	}
	return envelope.Data, nil
}
