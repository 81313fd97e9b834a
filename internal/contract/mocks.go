package contract

import (
	"context"
	"time"

	"github.com/arosling/casewatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockEventSource is a mock implementation of EventSource for testing.
type MockEventSource struct {
	mock.Mock
}

var _ EventSource = &MockEventSource{} // Compile-time check

// FetchEvents implements the EventSource interface.
func (m *MockEventSource) FetchEvents(ctx context.Context, start, end time.Time) ([]schema.EventRecord, error) {
	args := m.Called(ctx, start, end)
	events, _ := args.Get(0).([]schema.EventRecord)
	return events, args.Error(1)
}

// Describe implements the EventSource interface.
func (m *MockEventSource) Describe() string {
	args := m.Called()
	return args.String(0)
}

// MockRuleCatalog is a mock implementation of RuleCatalog for testing.
type MockRuleCatalog struct {
	mock.Mock
}

var _ RuleCatalog = &MockRuleCatalog{} // Compile-time check

// FetchRules implements the RuleCatalog interface.
func (m *MockRuleCatalog) FetchRules(ctx context.Context) ([]schema.ThresholdRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]schema.ThresholdRule)
	return rules, args.Error(1)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalEntities int) error {
	args := m.Called(runID, endTime, totalEntities)
	return args.Error(0)
}

// RecordClassified implements the RunStore interface.
func (m *MockRunStore) RecordClassified(runID int64, rows []schema.ClassifiedObservation) error {
	args := m.Called(runID, rows)
	return args.Error(0)
}

// RecordBreaches implements the RunStore interface.
func (m *MockRunStore) RecordBreaches(runID int64, rows []schema.ResolvedBreach) error {
	args := m.Called(runID, rows)
	return args.Error(0)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllClassified implements the RunStore interface.
func (m *MockRunStore) GetAllClassified() ([]schema.ClassifiedRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ClassifiedRecord)
	return records, args.Error(1)
}

// GetAllBreaches implements the RunStore interface.
func (m *MockRunStore) GetAllBreaches() ([]schema.BreachRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.BreachRecord)
	return records, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// Clear implements the RunStore interface.
func (m *MockRunStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
