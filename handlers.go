package main

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// This file contains the device-facing HTTP handlers. The two data routes
// share one resolution path and differ only in the envelope they compose.
// Devices poll these endpoints on a fixed firmware loop; every known device
// must always receive a parseable body, even when no data is available.

// handlerArduinoData serves the legacy envelope for GET /api/arduino/{id}/data.
func (cfg *apiConfig) handlerArduinoData(w http.ResponseWriter, r *http.Request) {
	cfg.serveArduinoData(w, r, func(view DeviceView, conditions SurfConditions, available bool, now time.Time) any {
		return composeEnvelope(view, conditions, available, now)
	})
}

// handlerArduinoDataV2 serves the v2 envelope for GET /api/arduino/v2/{id}/data.
func (cfg *apiConfig) handlerArduinoDataV2(w http.ResponseWriter, r *http.Request) {
	cfg.serveArduinoData(w, r, func(view DeviceView, conditions SurfConditions, available bool, now time.Time) any {
		return composeEnvelopeV2(view, conditions, available, now)
	})
}

func (cfg *apiConfig) serveArduinoData(w http.ResponseWriter, r *http.Request, compose func(DeviceView, SurfConditions, bool, time.Time) any) {
	ctx := r.Context()
	now := time.Now()

	deviceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		cfg.respondWithError(w, http.StatusNotFound, "device not found", nil)
		return
	}

	view, err := cfg.readDeviceView(ctx, deviceID)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			cfg.respondWithError(w, http.StatusNotFound, "device not found", nil)
			return
		}
		// Internal errors still produce a valid envelope so the firmware can
		// run in its safe fallback mode.
		cfg.logger.Error("device view unavailable, serving fallback envelope", "device_id", deviceID, "error", err)
		cfg.respondWithJSON(w, http.StatusOK, compose(DeviceView{}, SurfConditions{}, false, now))
		return
	}
	cfg.logger.Debug("device data request", "device_id", deviceID, "location", view.Device.Location)

	conditions, available := cfg.getCachedOrFetchConditions(ctx, view.Device.Location)
	cfg.respondWithJSON(w, http.StatusOK, compose(view, conditions, available, now))

	cfg.touchDeviceLastPoll(ctx, deviceID, now)
}

// handlerArduinoStatus is the lightweight health endpoint named by the
// discovery document. Devices probe it before switching API hosts.
func (cfg *apiConfig) handlerArduinoStatus(w http.ResponseWriter, r *http.Request) {
	cfg.respondWithJSON(w, http.StatusOK, StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handlerResetDB is a development-only endpoint that wipes the database and
// the Redis cache.
func (cfg *apiConfig) handlerResetDB(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	cfg.logger.Debug("database reset request received")

	ctx := r.Context()

	if err := cfg.dbQueries.DeleteAllLocationConditions(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := cfg.dbQueries.DeleteAllDevices(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := cfg.dbQueries.DeleteAllUsers(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := cfg.cache.Flush(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to flush cache", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "database and cache reset"})
}

// handlerRunSchedulerJobs is a development-only endpoint that manually
// triggers an ingestion cycle.
func (s *Scheduler) handlerRunSchedulerJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	s.cfg.logger.Info("manual scheduler run triggered")

	s.ticker.Reset(s.cfg.cycleInterval)

	go func() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.cycleJobs()
		}()
		wg.Wait()
		s.cfg.logger.Info("manual scheduler run finished")
	}()

	s.cfg.respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "scheduler cycle triggered"})
}

// handlerListConditions is a development-only endpoint that dumps the current
// conditions row for every tracked location.
func (cfg *apiConfig) handlerListConditions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	rows, err := cfg.dbQueries.ListLocationConditions(r.Context())
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to list conditions", err)
		return
	}

	conditions := make([]SurfConditions, 0, len(rows))
	for _, row := range rows {
		conditions = append(conditions, databaseConditionsToSurfConditions(row))
	}
	cfg.respondWithJSON(w, http.StatusOK, conditions)
}

// handlerConfig provides client-side tooling with the running configuration.
func (cfg *apiConfig) handlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, ConfigResponse{
		DevMode:              cfg.devMode,
		CycleInterval:        cfg.cycleInterval.String(),
		MaxConcurrentFetches: cfg.maxConcurrentFetches,
	})
}
