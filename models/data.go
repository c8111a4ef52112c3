package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nama collection mengikuti skema lama di database pupuk-sdlp.
const (
	CollectionRawData        = "rawdatas"
	CollectionCalibratedData = "calibrateddatas"
	CollectionManualData     = "manualdatas"
	CollectionRecommendation = "recommendations"
)

// Tipe input ManualData
const (
	InputTypeManual         = "manual_input"
	InputTypeFromCalibrated = "from_calibrated"
)

// Variables adalah paket variabel tanah yang dipakai RawData,
// CalibratedData, dan ManualData.
type Variables struct {
	PH         float64 `bson:"pH" json:"pH"`
	Suhu       float64 `bson:"suhu" json:"suhu"`
	Kelembaban float64 `bson:"kelembaban" json:"kelembaban"`
	N          float64 `bson:"N" json:"N"`
	P          float64 `bson:"P" json:"P"`
	K          float64 `bson:"K" json:"K"`
	EC         float64 `bson:"EC" json:"EC"`
}

// Validate memeriksa rentang tiap variabel:
// pH 0-14, suhu 0-100, kelembaban 0-100, N/P/K 0-1000, EC 0-2000.
func (v Variables) Validate() error {
	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"pH", v.PH, 0, 14},
		{"suhu", v.Suhu, 0, 100},
		{"kelembaban", v.Kelembaban, 0, 100},
		{"N", v.N, 0, 1000},
		{"P", v.P, 0, 1000},
		{"K", v.K, 0, 1000},
		{"EC", v.EC, 0, 2000},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return &RangeError{Field: c.field, Value: c.value, Min: c.min, Max: c.max}
		}
	}
	return nil
}

// RangeError menandai variabel di luar rentang yang diizinkan.
type RangeError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("variabel %s harus di antara %g dan %g, diterima %g", e.Field, e.Min, e.Max, e.Value)
}

// RawData adalah pembacaan sensor mentah. Timestamp selalu diisi server
// saat insert dan tidak pernah diubah.
type RawData struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Variables Variables          `bson:"variables" json:"variables"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// CalibratedData adalah hasil kalibrasi ML. Saat dibuat dari RawData,
// timestamp-nya disamakan dengan timestamp RawData asal agar sinkron.
type CalibratedData struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Variables Variables          `bson:"variables" json:"variables"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ManualData adalah entri lahan yang diinput manual dari dashboard.
// SourceCalibratedID opsional, hanya untuk penelusuran asal data.
type ManualData struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Label              string              `bson:"label" json:"label"`
	Coordinates        string              `bson:"coordinates" json:"coordinates"`
	SourceCalibratedID *primitive.ObjectID `bson:"sourceCalibratedId,omitempty" json:"sourceCalibratedId,omitempty"`
	Variables          Variables           `bson:"variables" json:"variables"`
	InputType          string              `bson:"inputType" json:"inputType"`
	Timestamp          time.Time           `bson:"timestamp" json:"timestamp"`
}

// RecommendationInput adalah input yang dikirim user untuk rekomendasi.
// TargetPadi disimpan sebagai enum angka 1-4 (lihat ConvertTargetPadi).
type RecommendationInput struct {
	P            float64 `bson:"P" json:"P"`
	N            float64 `bson:"N" json:"N"`
	K            float64 `bson:"K" json:"K"`
	JenisTanaman string  `bson:"jenis_tanaman" json:"jenis_tanaman"`
	TargetPadi   int     `bson:"target_padi" json:"target_padi"`
}

// Dosage adalah dosis pupuk hasil ML (kg/ha).
type Dosage struct {
	Urea float64 `bson:"urea" json:"urea"`
	Sp36 float64 `bson:"sp36" json:"sp36"`
	Kcl  float64 `bson:"kcl" json:"kcl"`
}

type Reasons struct {
	Info string `bson:"info" json:"info"`
}

type ConversionResults struct {
	StatusP string  `bson:"status_p" json:"status_p"`
	StatusK string  `bson:"status_k" json:"status_k"`
	P2O5    float64 `bson:"p2o5" json:"p2o5"`
	K2O     float64 `bson:"k2o" json:"k2o"`
}

// Recommendation adalah history rekomendasi pemupukan.
type Recommendation struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Input             RecommendationInput `bson:"input" json:"input"`
	Recommendation    Dosage              `bson:"recommendation" json:"recommendation"`
	Reasons           Reasons             `bson:"reasons" json:"reasons"`
	Tips              string              `bson:"tips" json:"tips"`
	ConversionResults ConversionResults   `bson:"conversion_results" json:"conversion_results"`
	Timestamp         time.Time           `bson:"timestamp" json:"timestamp"`
}
