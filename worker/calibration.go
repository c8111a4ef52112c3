// Package worker menjalankan kalibrasi ML di belakang layar. Pengganti pola
// fire-and-forget: setiap RawData baru masuk antrian job yang persisten di
// MongoDB, sehingga kegagalan kalibrasi terlihat dan bisa diulang, bukan
// hilang diam-diam.
package worker

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sitrascs/sitras-api/ml"
	"github.com/sitrascs/sitras-api/models"
)

const CollectionCalibrationJobs = "calibration_jobs"

// Status job kalibrasi.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// CalibrationJob adalah catatan persisten satu percobaan kalibrasi.
type CalibrationJob struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	RawID     primitive.ObjectID `bson:"rawId" json:"rawId"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Variables models.Variables   `bson:"variables" json:"variables"`
	Status    string             `bson:"status" json:"status"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	LastError string             `bson:"lastError,omitempty" json:"lastError,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CalibrationWorker memproses job pending satu per satu. Selain dibangunkan
// lewat Enqueue, worker juga punya tick berkala supaya job yang tertinggal
// dari proses sebelumnya ikut terambil.
type CalibrationWorker struct {
	db     *mongo.Database
	client *ml.Client
	logger *zap.Logger

	wake         chan struct{}
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	maxAttempts  int
	retryDelay   time.Duration
	pollInterval time.Duration
}

func NewCalibrationWorker(db *mongo.Database, client *ml.Client, logger *zap.Logger) *CalibrationWorker {
	return &CalibrationWorker{
		db:           db,
		client:       client,
		logger:       logger,
		wake:         make(chan struct{}, 1),
		maxAttempts:  3,
		retryDelay:   5 * time.Second,
		pollInterval: 30 * time.Second,
	}
}

// Enqueue mencatat job kalibrasi untuk satu RawData dan membangunkan worker.
// Dipanggil setelah RawData tersimpan; response ke alat tidak menunggu ini.
func (w *CalibrationWorker) Enqueue(ctx context.Context, raw models.RawData) error {
	now := time.Now().UTC()
	job := CalibrationJob{
		RawID:     raw.ID,
		Timestamp: raw.Timestamp,
		Variables: raw.Variables,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := w.db.Collection(CollectionCalibrationJobs).InsertOne(ctx, job); err != nil {
		return err
	}
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Start menjalankan loop worker sampai ctx selesai atau Stop dipanggil.
func (w *CalibrationWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop menghentikan worker dan menunggu job yang sedang berjalan selesai.
func (w *CalibrationWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *CalibrationWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Ambil job sisa startup sebelum menunggu sinyal pertama.
	w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
			w.drain(ctx)
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain memproses semua job pending yang siap dijalankan.
func (w *CalibrationWorker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, ok := w.nextPending(ctx)
		if !ok {
			return
		}
		w.process(ctx, job)
	}
}

func (w *CalibrationWorker) nextPending(ctx context.Context) (CalibrationJob, bool) {
	findCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Job yang baru gagal ditunda retryDelay, dilihat dari updatedAt.
	cutoff := time.Now().UTC().Add(-w.retryDelay)
	filter := bson.M{
		"status": StatusPending,
		"$or": bson.A{
			bson.M{"attempts": 0},
			bson.M{"updatedAt": bson.M{"$lte": cutoff}},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var job CalibrationJob
	err := w.db.Collection(CollectionCalibrationJobs).FindOne(findCtx, filter, opts).Decode(&job)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			w.logger.Error("Gagal mengambil job kalibrasi", zap.Error(err))
		}
		return CalibrationJob{}, false
	}
	return job, true
}

func (w *CalibrationWorker) process(ctx context.Context, job CalibrationJob) {
	result, err := w.client.Calibrate(ctx, ml.CalibrationRequest{
		PH: job.Variables.PH,
		N:  job.Variables.N,
		P:  job.Variables.P,
		K:  job.Variables.K,
	})
	if err != nil {
		w.markFailure(ctx, job, err)
		return
	}

	calibrated := MergeCalibrated(job, result)
	if err := calibrated.Variables.Validate(); err != nil {
		// ML mengembalikan nilai di luar rentang; tidak ada gunanya diulang.
		w.updateJob(ctx, job.ID, bson.M{
			"status":    StatusFailed,
			"attempts":  job.Attempts + 1,
			"lastError": err.Error(),
		})
		w.logger.Error("Hasil kalibrasi di luar rentang",
			zap.String("job_id", job.ID.Hex()), zap.Error(err))
		return
	}

	insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := w.db.Collection(models.CollectionCalibratedData).InsertOne(insertCtx, calibrated); err != nil {
		w.markFailure(ctx, job, err)
		return
	}

	w.updateJob(ctx, job.ID, bson.M{
		"status":    StatusDone,
		"attempts":  job.Attempts + 1,
		"lastError": "",
	})
	w.logger.Info("Data terkalibrasi berhasil disimpan",
		zap.String("raw_id", job.RawID.Hex()),
		zap.Time("timestamp", job.Timestamp),
	)
}

func (w *CalibrationWorker) markFailure(ctx context.Context, job CalibrationJob, cause error) {
	attempts := job.Attempts + 1
	status := NextStatus(attempts, w.maxAttempts)
	w.updateJob(ctx, job.ID, bson.M{
		"status":    status,
		"attempts":  attempts,
		"lastError": cause.Error(),
	})
	if status == StatusFailed {
		w.logger.Error("Kalibrasi ML gagal permanen",
			zap.String("raw_id", job.RawID.Hex()),
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
	} else {
		w.logger.Warn("Kalibrasi ML gagal, akan diulang",
			zap.String("raw_id", job.RawID.Hex()),
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
	}
}

func (w *CalibrationWorker) updateJob(ctx context.Context, id primitive.ObjectID, set bson.M) {
	updCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	_, err := w.db.Collection(CollectionCalibrationJobs).UpdateOne(updCtx,
		bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		w.logger.Error("Gagal memperbarui job kalibrasi",
			zap.String("job_id", id.Hex()), zap.Error(err))
	}
}

// NextStatus menentukan status job setelah satu percobaan gagal.
func NextStatus(attempts, maxAttempts int) string {
	if attempts >= maxAttempts {
		return StatusFailed
	}
	return StatusPending
}

// MergeCalibrated membentuk CalibratedData dari hasil ML: pH/N/P/K memakai
// nilai terkalibrasi, suhu/kelembaban/EC dibawa apa adanya dari pembacaan
// mentah, dan timestamp disamakan dengan RawData asal.
func MergeCalibrated(job CalibrationJob, result ml.CalibrationResult) models.CalibratedData {
	return models.CalibratedData{
		Timestamp: job.Timestamp,
		Variables: models.Variables{
			PH:         result.PHCalibrated,
			N:          result.NCalibrated,
			P:          result.PCalibrated,
			K:          result.KCalibrated,
			Suhu:       job.Variables.Suhu,
			Kelembaban: job.Variables.Kelembaban,
			EC:         job.Variables.EC,
		},
	}
}
