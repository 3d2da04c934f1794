package iocache

import (
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
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

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, configParams map[string]any) (string, error) {
	args := m.Called(startTime, configParams)
	return args.String(0), args.Error(1)
}

// RecordActors implements the HistoryStore interface.
func (m *MockHistoryStore) RecordActors(runID string, actors []schema.RankedActor) error {
	args := m.Called(runID, actors)
	return args.Error(0)
}

// RecordSearch implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSearch(runID string, rec schema.SearchRecord) error {
	args := m.Called(runID, rec)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID string, endTime time.Time, status schema.RunStatus, totalActors int) error {
	args := m.Called(runID, endTime, status, totalActors)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllRankedActors implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRankedActors() ([]schema.RankedActorRecord, error) {
	args := m.Called()
	actors, _ := args.Get(0).([]schema.RankedActorRecord)
	return actors, args.Error(1)
}

// GetAllSearches implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSearches() ([]schema.SearchRecord, error) {
	args := m.Called()
	searches, _ := args.Get(0).([]schema.SearchRecord)
	return searches, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
