// Package audit provides PDR (Process Decision Record) writing for Vitalis.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/vitalis/internal/models"
	"go.uber.org/zap"
)

// Actions recorded by the dashboard.
const (
	ActionFormSave       = "form.save"
	ActionAssessment     = "assessment.run"
	ActionPlan           = "plan.generate"
	ActionTasksMerge     = "tasks.merge"
	ActionTaskAdd        = "tasks.add"
	ActionTaskProgress   = "tasks.progress"
	ActionTaskTime       = "tasks.time"
	ActionTaskRename     = "tasks.rename"
	ActionTasksClear     = "tasks.clear"
	ActionMetricsUpdate  = "metrics.update"
	ActionStreakIncrease = "streak.increment"
)

// Sink persists records. *store.Store satisfies it.
type Sink interface {
	WritePDR(ctx context.Context, action, inputsHash, outcome, userID, details string) (*models.PDREntry, error)
}

// PDRWriter writes Process Decision Records for audit trails.
type PDRWriter struct {
	sink   Sink
	logger *zap.Logger
}

// NewPDRWriter creates a new PDR writer. A nil logger disables failure logs.
func NewPDRWriter(s Sink, logger *zap.Logger) *PDRWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDRWriter{sink: s, logger: logger}
}

// Record writes a PDR entry for a state-mutating action. Audit failures are
// logged and never fail the caller's operation.
func (w *PDRWriter) Record(ctx context.Context, action string, inputs interface{}, outcome, userID, details string) *models.PDREntry {
	entry, err := w.sink.WritePDR(ctx, action, hashInputs(inputs), outcome, userID, details)
	if err != nil {
		w.logger.Warn("audit record failed",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return entry
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
