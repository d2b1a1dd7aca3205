// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/germtrack/schema"
)

// HistoryManager defines the interface for reaching the run-history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking analysis runs and their per-replicate indices.
type HistoryStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalReplicates, failedReplicates int) error

	// RecordReplicate stores the computed indices of one replicate
	RecordReplicate(analysisID int64, analysisTime time.Time, p schema.ParameterSet) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllAnalysisRuns retrieves every recorded run
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllReplicateRecords retrieves every recorded replicate row
	GetAllReplicateRecords() ([]schema.ReplicateRecord, error)

	// Close closes the underlying connection
	Close() error
}
