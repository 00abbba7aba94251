// Package jobs holds background task definitions and the Asynq worker.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity is the task type for the periodic books
	// integrity scan.
	TaskLedgerIntegrity = "ledger:integrity"
)

// LedgerIntegrityPayload parameterises one integrity scan run.
type LedgerIntegrityPayload struct {
	ScanID string `json:"scanId"`
	AsOn   string `json:"asOn,omitempty"`
}

// NewLedgerIntegrityTask constructs an integrity scan task. An empty asOn
// means "as of today" at execution time.
func NewLedgerIntegrityTask(asOn time.Time) (*asynq.Task, error) {
	payload := LedgerIntegrityPayload{ScanID: uuid.NewString()}
	if !asOn.IsZero() {
		payload.AsOn = asOn.Format("2006-01-02")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}
