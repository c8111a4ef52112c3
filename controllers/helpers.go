package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitrascs/sitras-api/config"
	"github.com/sitrascs/sitras-api/ml"
	"github.com/sitrascs/sitras-api/worker"
)

// Dependensi bersama, diisi dari main sebelum route didaftarkan.
var (
	MLClient          *ml.Client
	CalibrationWorker *worker.CalibrationWorker
)

// ======================= BOUNDARY HELPERS =======================

// ConvertTargetPadi memetakan target produksi padi (string dari frontend)
// ke enum angka yang disimpan: "<6"→1, "6-8"→2, ">8"→3, selain itu
// (termasuk "N/A")→4.
func ConvertTargetPadi(target string) int {
	switch target {
	case "<6":
		return 1
	case "6-8":
		return 2
	case ">8":
		return 3
	default:
		return 4
	}
}

// parseLimit membaca query param limit, default 50. Tidak ada batas atas.
func parseLimit(c *gin.Context) int64 {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return int64(limit)
}

// coerceFloat menerima angka JSON atau string angka ("10.5") dan
// mengubahnya ke float64, meniru parseFloat di frontend lama.
func coerceFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(t, 64)
	case nil:
		return 0, fmt.Errorf("nilai kosong")
	default:
		return 0, fmt.Errorf("nilai %v bukan angka", v)
	}
}

// ======================= COLLECTION HELPERS =======================

func findLatest(ctx context.Context, coll string, out interface{}) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return config.DB.Collection(coll).FindOne(ctx, bson.D{}, opts).Decode(out)
}

func findHistory(ctx context.Context, coll string, limit int64, out interface{}) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := config.DB.Collection(coll).Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// deleteByID menghapus satu dokumen; false jika id tidak ditemukan.
func deleteByID(ctx context.Context, coll string, id primitive.ObjectID) (bool, error) {
	res, err := config.DB.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func deleteAll(ctx context.Context, coll string) error {
	_, err := config.DB.Collection(coll).DeleteMany(ctx, bson.D{})
	return err
}
