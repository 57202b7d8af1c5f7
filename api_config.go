package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type apiConfig struct {
	dbQueries            dbQuerier
	dbURL                string
	newDBClientFunc      func(driverName, dataSourceName string) (*sql.DB, error)
	cache                Cache
	registry             *Registry
	httpClient           *http.Client
	cycleInterval        time.Duration
	maxConcurrentFetches int
	onlineThreshold      time.Duration
	port                 string
	devMode              bool
	logger               *slog.Logger
}

// getRequiredEnv retrieves an environment variable by key, and fatals if it's not set.
func getRequiredEnv(key string, logger *slog.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		logger.Error("environment variable must be set", "key", key)
		os.Exit(1)
	}
	return val
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

func config() *apiConfig {
	devModeStr := os.Getenv("DEV_MODE")
	devMode, err := strconv.ParseBool(devModeStr)
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	cycleIntervalSec := getEnvAsInt("CYCLE_INTERVAL_SECONDS", 900, logger)
	maxFetches := getEnvAsInt("MAX_CONCURRENT_FETCHES", 8, logger)
	httpTimeoutSec := getEnvAsInt("HTTP_TIMEOUT_SECONDS", 15, logger)
	onlineThresholdSec := getEnvAsInt("DEVICE_ONLINE_THRESHOLD_SECONDS", 3600, logger)

	cfg := apiConfig{
		dbURL:           getRequiredEnv("DATABASE_URL", logger),
		newDBClientFunc: sql.Open,
		registry:        defaultRegistry(os.Getenv("OWM_KEY")),
		httpClient: &http.Client{
			Timeout: time.Duration(httpTimeoutSec) * time.Second,
		},
		cycleInterval:        time.Duration(cycleIntervalSec) * time.Second,
		maxConcurrentFetches: maxFetches,
		onlineThreshold:      time.Duration(onlineThresholdSec) * time.Second,
		port:                 getEnv("PORT", "8080", logger),
		devMode:              devMode,
		logger:               logger,
	}

	return &cfg
}

// ConnectCache wires the Redis conditions cache. REDIS_URL is optional: without
// it every conditions read falls through to the database.
func (cfg *apiConfig) ConnectCache() error {
	redisURL, ok := os.LookupEnv("REDIS_URL")
	if !ok {
		cfg.logger.Info("REDIS_URL not set, running without a conditions cache")
		cfg.cache = noopCache{}
		return nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		cfg.logger.Error("could not parse Redis URL", "error", err)
		return err
	}
	redisClient := redis.NewClient(opt)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		cfg.logger.Error("could not connect to Redis", "error", err)
		return err
	}
	cfg.cache = NewRedisCache(redisClient)
	cfg.logger.Info("connected to Redis")
	return nil
}
