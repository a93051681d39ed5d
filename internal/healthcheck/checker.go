// Package healthcheck evaluates runtime checks against the bot's external
// collaborators so the health endpoint can report more than process liveness.
package healthcheck

import (
	"context"
	"log/slog"
	"time"
)

const (
	// StatusOK indicates check passed.
	StatusOK = "ok"
	// StatusError indicates check failed.
	StatusError = "error"
	// StatusUnknown indicates check result is not yet known.
	StatusUnknown = "unknown"
)

// CheckResult is one runtime check item produced by a checker.
type CheckResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
	Detail  string `json:"detail,omitempty"`
}

// Checker evaluates a single runtime check.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

const checkTimeout = 10 * time.Second

// Registry runs a fixed set of checkers and aggregates their results.
type Registry struct {
	checkers []Checker
	logger   *slog.Logger
}

// NewRegistry creates a check registry.
func NewRegistry(log *slog.Logger, checkers ...Checker) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		checkers: checkers,
		logger:   log.With(slog.String("service", "healthcheck")),
	}
}

// Run evaluates every registered check. The second return value is false
// when any check did not pass.
func (r *Registry) Run(ctx context.Context) ([]CheckResult, bool) {
	results := make([]CheckResult, 0, len(r.checkers))
	healthy := true
	for _, checker := range r.checkers {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		result := checker.Check(checkCtx)
		cancel()
		if result.Status != StatusOK {
			healthy = false
			r.logger.Warn("check failed",
				slog.String("check", result.ID),
				slog.String("status", result.Status),
				slog.String("detail", result.Detail))
		}
		results = append(results, result)
	}
	return results, healthy
}
