package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gametribe/backend/pkg/logger"
)

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	JobType  string    `bson:"job_type" json:"job_type"`
	Payload  string    `bson:"payload" json:"payload"`
	Error    string    `bson:"error" json:"error"`
	Attempts int       `bson:"attempts" json:"attempts"`
	FailedAt time.Time `bson:"failed_at" json:"failed_at"`
}

var (
	failedMu  sync.Mutex
	failed    []FailedJob
	failedCol *mongo.Collection
)

// UseMongo persists failed jobs to the given collection in addition to
// the in-memory buffer. Call once at boot:
//
//	queue.UseMongo(database.Collection("failed_jobs"))
func UseMongo(col *mongo.Collection) {
	failedMu.Lock()
	defer failedMu.Unlock()
	failedCol = col
}

func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte("{}")
	}

	record := FailedJob{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	failedMu.Lock()
	failed = append(failed, record)
	col := failedCol
	failedMu.Unlock()

	if col == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := col.InsertOne(ctx, record); err != nil {
		// Non-fatal, the in-memory buffer still has it.
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}

// FailedJobs returns a snapshot of the in-memory failure buffer.
func FailedJobs() []FailedJob {
	failedMu.Lock()
	defer failedMu.Unlock()
	out := make([]FailedJob, len(failed))
	copy(out, failed)
	return out
}
