// Package store persists experiment results: one run per invocation, one
// row per trial record.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/collabsim/netform/internal/metrics"
)

// ErrRunNotFound is returned when a run id does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored experiment invocation.
type Run struct {
	ID        string
	CreatedAt time.Time

	// Config is the resolved configuration the run used, serialized as
	// YAML, so any run can be reproduced from its row alone.
	Config string

	// Trials is the number of trial records stored for the run.
	Trials int
}

// Store persists runs and their trial records.
type Store interface {
	// CreateRun registers a new run and returns its id.
	CreateRun(ctx context.Context, config string) (string, error)

	// AppendTrials stores trial records for a run, preserving order.
	AppendTrials(ctx context.Context, runID string, records []metrics.TrialRecord) error

	// ListRuns returns all runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// Trials returns a run's records in stored order.
	Trials(ctx context.Context, runID string) ([]metrics.TrialRecord, error)

	Close() error
}
