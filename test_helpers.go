package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/surflamp/surflamp/internal/database"
)

// --- Mocks ---

// mockCache is a mock for the Cache interface.
type mockCache struct {
	getFunc   func(ctx context.Context, key string) (string, error)
	setFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	flushFunc func(ctx context.Context) error

	setCalls int
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return "", redis.Nil
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	m.setCalls++
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockCache) Flush(ctx context.Context) error {
	if m.flushFunc != nil {
		return m.flushFunc(ctx)
	}
	return nil
}

// mockQuerier is a comprehensive, safe mock for the dbQuerier interface.
// It fails the test if any unexpected method is called.
type mockQuerier struct {
	t *testing.T

	BatchUpdateDeviceLastPollFunc   func(ctx context.Context, arg database.BatchUpdateDeviceLastPollParams) error
	DeleteAllDevicesFunc            func(ctx context.Context) error
	DeleteAllLocationConditionsFunc func(ctx context.Context) error
	DeleteAllUsersFunc              func(ctx context.Context) error
	GetDeviceViewFunc               func(ctx context.Context, deviceID int64) (database.GetDeviceViewRow, error)
	GetDevicesAtLocationFunc        func(ctx context.Context, location string) ([]database.GetDevicesAtLocationRow, error)
	GetLocationConditionsFunc       func(ctx context.Context, location string) (database.LocationCondition, error)
	ListDeviceLocationsFunc         func(ctx context.Context) ([]string, error)
	ListLocationConditionsFunc      func(ctx context.Context) ([]database.LocationCondition, error)
	UpdateDeviceLastPollFunc        func(ctx context.Context, arg database.UpdateDeviceLastPollParams) error
	UpsertLocationConditionsFunc    func(ctx context.Context, arg database.UpsertLocationConditionsParams) (database.LocationCondition, error)

	updateDeviceLastPollCalls     int
	upsertLocationConditionsCalls int
}

func (m *mockQuerier) fail(method string) {
	m.t.Fatalf("unexpected call to mockQuerier method: %s", method)
}

func (m *mockQuerier) BatchUpdateDeviceLastPoll(ctx context.Context, arg database.BatchUpdateDeviceLastPollParams) error {
	if m.BatchUpdateDeviceLastPollFunc != nil {
		return m.BatchUpdateDeviceLastPollFunc(ctx, arg)
	}
	m.fail("BatchUpdateDeviceLastPoll")
	return nil
}

func (m *mockQuerier) DeleteAllDevices(ctx context.Context) error {
	if m.DeleteAllDevicesFunc != nil {
		return m.DeleteAllDevicesFunc(ctx)
	}
	m.fail("DeleteAllDevices")
	return nil
}

func (m *mockQuerier) DeleteAllLocationConditions(ctx context.Context) error {
	if m.DeleteAllLocationConditionsFunc != nil {
		return m.DeleteAllLocationConditionsFunc(ctx)
	}
	m.fail("DeleteAllLocationConditions")
	return nil
}

func (m *mockQuerier) DeleteAllUsers(ctx context.Context) error {
	if m.DeleteAllUsersFunc != nil {
		return m.DeleteAllUsersFunc(ctx)
	}
	m.fail("DeleteAllUsers")
	return nil
}

func (m *mockQuerier) GetDeviceView(ctx context.Context, deviceID int64) (database.GetDeviceViewRow, error) {
	if m.GetDeviceViewFunc != nil {
		return m.GetDeviceViewFunc(ctx, deviceID)
	}
	m.fail("GetDeviceView")
	return database.GetDeviceViewRow{}, nil
}

func (m *mockQuerier) GetDevicesAtLocation(ctx context.Context, location string) ([]database.GetDevicesAtLocationRow, error) {
	if m.GetDevicesAtLocationFunc != nil {
		return m.GetDevicesAtLocationFunc(ctx, location)
	}
	m.fail("GetDevicesAtLocation")
	return nil, nil
}

func (m *mockQuerier) GetLocationConditions(ctx context.Context, location string) (database.LocationCondition, error) {
	if m.GetLocationConditionsFunc != nil {
		return m.GetLocationConditionsFunc(ctx, location)
	}
	m.fail("GetLocationConditions")
	return database.LocationCondition{}, nil
}

func (m *mockQuerier) ListDeviceLocations(ctx context.Context) ([]string, error) {
	if m.ListDeviceLocationsFunc != nil {
		return m.ListDeviceLocationsFunc(ctx)
	}
	m.fail("ListDeviceLocations")
	return nil, nil
}

func (m *mockQuerier) ListLocationConditions(ctx context.Context) ([]database.LocationCondition, error) {
	if m.ListLocationConditionsFunc != nil {
		return m.ListLocationConditionsFunc(ctx)
	}
	m.fail("ListLocationConditions")
	return nil, nil
}

func (m *mockQuerier) UpdateDeviceLastPoll(ctx context.Context, arg database.UpdateDeviceLastPollParams) error {
	m.updateDeviceLastPollCalls++
	if m.UpdateDeviceLastPollFunc != nil {
		return m.UpdateDeviceLastPollFunc(ctx, arg)
	}
	m.fail("UpdateDeviceLastPoll")
	return nil
}

func (m *mockQuerier) UpsertLocationConditions(ctx context.Context, arg database.UpsertLocationConditionsParams) (database.LocationCondition, error) {
	m.upsertLocationConditionsCalls++
	if m.UpsertLocationConditionsFunc != nil {
		return m.UpsertLocationConditionsFunc(ctx, arg)
	}
	m.fail("UpsertLocationConditions")
	return database.LocationCondition{}, nil
}

// --- Test Config ---

// testAPIConfig bundles an apiConfig wired to mocks, so tests can both
// configure behavior and inspect calls.
type testAPIConfig struct {
	apiConfig *apiConfig
	mockDB    *mockQuerier
	mockCache *mockCache
}

func newTestAPIConfig(t *testing.T) *testAPIConfig {
	t.Helper()
	mockDB := &mockQuerier{t: t}
	cache := &mockCache{}
	cfg := &apiConfig{
		dbQueries:            mockDB,
		cache:                cache,
		registry:             defaultRegistry(""),
		httpClient:           &http.Client{Timeout: 5 * time.Second},
		cycleInterval:        15 * time.Minute,
		maxConcurrentFetches: 8,
		onlineThreshold:      time.Hour,
		port:                 "8080",
		logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return &testAPIConfig{
		apiConfig: cfg,
		mockDB:    mockDB,
		mockCache: cache,
	}
}
