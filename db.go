package main

import (
	"context"

	_ "github.com/lib/pq"
	"github.com/surflamp/surflamp/internal/database"
)

// ConnectDB establishes a connection to the PostgreSQL database using the
// connection string in the apiConfig struct. It initializes the dbQueries field
// with a sqlc-generated Queries struct, which provides type-safe methods for all
// database operations. This method should be called during application startup
// to ensure that the database is reachable before handling any requests.
func (cfg *apiConfig) ConnectDB() error {
	db, err := cfg.newDBClientFunc("postgres", cfg.dbURL)
	if err != nil {
		cfg.logger.Error("couldn't prepare connection to database", "error", err)
		return err
	}
	if err := db.Ping(); err != nil {
		cfg.logger.Error("couldn't connect to database", "error", err)
		return err
	}
	cfg.dbQueries = database.New(db)
	cfg.logger.Info("connected to database")
	return nil
}

// dbQuerier is an interface that abstracts all database operations.
// It is implemented by the sqlc-generated Queries struct, allowing for
// dependency injection and easy mocking in tests. This decouples business logic
// from the data layer.
type dbQuerier interface {
	BatchUpdateDeviceLastPoll(ctx context.Context, arg database.BatchUpdateDeviceLastPollParams) error
	DeleteAllDevices(ctx context.Context) error
	DeleteAllLocationConditions(ctx context.Context) error
	DeleteAllUsers(ctx context.Context) error
	GetDeviceView(ctx context.Context, deviceID int64) (database.GetDeviceViewRow, error)
	GetDevicesAtLocation(ctx context.Context, location string) ([]database.GetDevicesAtLocationRow, error)
	GetLocationConditions(ctx context.Context, location string) (database.LocationCondition, error)
	ListDeviceLocations(ctx context.Context) ([]string, error)
	ListLocationConditions(ctx context.Context) ([]database.LocationCondition, error)
	UpdateDeviceLastPoll(ctx context.Context, arg database.UpdateDeviceLastPollParams) error
	UpsertLocationConditions(ctx context.Context, arg database.UpsertLocationConditionsParams) (database.LocationCondition, error)
}
