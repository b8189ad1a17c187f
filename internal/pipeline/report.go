package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Report is the final outcome of a run. Per-URL failures are listed for
// manual operator re-run; the tool never retries on its own.
type Report struct {
	Domain        string        `json:"domain"`
	StartedAt     time.Time     `json:"started_at"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	PagesFound    int           `json:"pages_found"`
	PurgeSkipped  bool          `json:"purge_skipped"`
	WarmSkipped   bool          `json:"warm_skipped"`
	PurgeFailures []string      `json:"purge_failures"`
	WarmFailures  []string      `json:"warm_failures"`
}

// NothingToDo reports whether the walk produced zero page URLs. That is a
// neutral outcome, not an error.
func (r Report) NothingToDo() bool {
	return r.PagesFound == 0
}

// LogSummary emits the final report through the logger.
func (r Report) LogSummary(logger *zap.Logger) {
	logger.Info("final report",
		zap.String("domain", r.Domain),
		zap.Int("pages_found", r.PagesFound),
		zap.Bool("purge_skipped", r.PurgeSkipped),
		zap.Bool("warm_skipped", r.WarmSkipped),
		zap.Int("purge_failures", len(r.PurgeFailures)),
		zap.Int("warm_failures", len(r.WarmFailures)),
		zap.Duration("elapsed", r.Elapsed),
	)
	if len(r.PurgeFailures) > 0 {
		logger.Warn("purge failures; retry these manually", zap.Strings("urls", r.PurgeFailures))
	}
	if len(r.WarmFailures) > 0 {
		logger.Warn("warm failures; retry these manually", zap.Strings("urls", r.WarmFailures))
	}
}

// WriteFile writes the report as JSON to path.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
