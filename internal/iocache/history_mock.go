package iocache

import (
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginAnalysis implements the HistoryStore interface.
func (m *MockHistoryStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndAnalysis implements the HistoryStore interface.
func (m *MockHistoryStore) EndAnalysis(analysisID int64, endTime time.Time, totalReplicates, failedReplicates int) error {
	args := m.Called(analysisID, endTime, totalReplicates, failedReplicates)
	return args.Error(0)
}

// RecordReplicate implements the HistoryStore interface.
func (m *MockHistoryStore) RecordReplicate(analysisID int64, analysisTime time.Time, p schema.ParameterSet) error {
	args := m.Called(analysisID, analysisTime, p)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllAnalysisRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

// GetAllReplicateRecords implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllReplicateRecords() ([]schema.ReplicateRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ReplicateRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
