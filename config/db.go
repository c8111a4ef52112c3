package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var DB *mongo.Database

// ConnectDB membuka koneksi MongoDB dan mengisi DB. Kegagalan koneksi
// dikembalikan sebagai error, bukan fatal: server HTTP tetap jalan dan
// request yang butuh database akan gagal satu per satu.
func ConnectDB(cfg *Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	DB = client.Database(cfg.MongoDatabase)

	if err := ensureIndexes(ctx); err != nil {
		Log.Warn("Gagal membuat index", zap.Error(err))
	}
	return nil
}

func ensureIndexes(ctx context.Context) error {
	_, err := DB.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
