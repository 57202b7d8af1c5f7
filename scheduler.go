package main

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// The scheduler drives ingestion: every cycle it enumerates the locations
// referenced by at least one device, intersects them with the registry, and
// dispatches one job per location onto a bounded worker pool. A location is
// fetched once per cycle no matter how many devices live there.

type Scheduler struct {
	cfg      *apiConfig
	tickChan <-chan time.Time
	ticker   *time.Ticker
	stop     chan struct{}
	baseCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	sem      chan struct{}

	mu       sync.Mutex
	inFlight map[string]bool

	cycleJobs func()
}

func NewScheduler(cfg *apiConfig) *Scheduler {
	ticker := time.NewTicker(cfg.cycleInterval)
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:      cfg,
		tickChan: ticker.C,
		ticker:   ticker,
		stop:     make(chan struct{}),
		baseCtx:  baseCtx,
		cancel:   cancel,
		sem:      make(chan struct{}, cfg.maxConcurrentFetches),
		inFlight: make(map[string]bool),
	}
	s.cycleJobs = s.runCycle
	return s
}

// Start launches the scheduler loop. The first cycle runs immediately so
// freshly deployed instances serve data before the first tick.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.cfg.logger.Info("scheduler: running initial cycle")
		s.cycleJobs()
		for {
			select {
			case <-s.tickChan:
				s.cfg.logger.Debug("scheduler: cycle tick")
				s.cycleJobs()
			case <-s.stop:
				s.cfg.logger.Info("scheduler: stopping")
				s.ticker.Stop()
				return
			}
		}
	}()
}

// Stop signals in-flight jobs to cancel and blocks until they finish.
// Persistence writes that already began run to completion regardless.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.cancel()
	s.wg.Wait()
}

// tryAcquire marks a location as in flight. Cycles never overlap per location:
// when a prior job is still running, the new cycle skips that location.
func (s *Scheduler) tryAcquire(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[name] {
		return false
	}
	s.inFlight[name] = true
	return true
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, name)
}

// runCycle dispatches one job per active location and waits for all of them.
// The cycle carries a deadline equal to the cycle interval so a runaway job
// cannot overlap the next cycle.
func (s *Scheduler) runCycle() {
	schedulerCycles.Inc()
	ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.cycleInterval)
	defer cancel()

	inUse, err := s.cfg.dbQueries.ListDeviceLocations(ctx)
	if err != nil {
		s.cfg.logger.Error("scheduler: failed to list device locations", "error", err)
		return
	}

	active, unknown := s.cfg.registry.ActiveLocations(inUse)
	for _, name := range unknown {
		s.cfg.logger.Warn("scheduler: device references location missing from registry", "location", name)
	}

	var wg sync.WaitGroup
	for _, entry := range active {
		if !s.tryAcquire(entry.Name) {
			s.cfg.logger.Warn("scheduler: previous job still running, skipping location this cycle", "location", entry.Name)
			continue
		}
		select {
		case s.sem <- struct{}{}:
		case <-ctx.Done():
			s.release(entry.Name)
			s.cfg.logger.Warn("scheduler: cycle deadline reached before dispatch", "location", entry.Name)
			continue
		}
		wg.Add(1)
		s.wg.Add(1)
		go func(entry RegistryEntry) {
			defer wg.Done()
			defer s.wg.Done()
			defer func() { <-s.sem }()
			defer s.release(entry.Name)
			s.updateLocation(ctx, entry)
		}(entry)
	}
	wg.Wait()
	s.cfg.logger.Debug("scheduler: all jobs for this cycle completed")
}

// updateLocation runs one location job: walk the wave URLs then the wind URLs
// in strict priority order until the required fields are satisfied, normalize,
// and write exactly one row. On total failure the previous row stays intact.
func (s *Scheduler) updateLocation(ctx context.Context, entry RegistryEntry) {
	merged := PartialConditions{}

	merged = s.collectSources(ctx, entry.WaveURLs, merged, func(p PartialConditions) bool {
		return p.hasWave() && p.WavePeriodS != nil
	})
	merged = s.collectSources(ctx, entry.WindURLs, merged, func(p PartialConditions) bool {
		return p.hasWind() && p.WindDirectionDeg != nil
	})

	conditions, err := finalizeConditions(merged, entry.Name, time.Now(), s.cfg.logger)
	if err != nil {
		s.cfg.logger.Warn("scheduler: insufficient data, keeping previous row", "location", entry.Name, "error", err)
		return
	}

	// Writes that have begun must complete even during shutdown.
	persistCtx := context.WithoutCancel(ctx)
	if _, err := s.cfg.dbQueries.UpsertLocationConditions(persistCtx, surfConditionsToUpsertParams(conditions)); err != nil {
		s.cfg.logger.Error("scheduler: failed to persist conditions", "location", entry.Name, "error", err)
		return
	}
	locationsUpdated.Inc()

	if err := s.cfg.cache.Set(persistCtx, conditionsCacheKey(entry.Name), conditions, s.cfg.cycleInterval); err != nil {
		s.cfg.logger.Warn("scheduler: failed to cache conditions", "location", entry.Name, "error", err)
	}

	s.cfg.logger.Info("scheduler: updated conditions",
		"location", entry.Name,
		"wave_height_m", conditions.WaveHeightM,
		"wind_speed_mps", conditions.WindSpeedMps,
	)
}

// collectSources walks one URL class in priority order, merging each source's
// partial record until the class is satisfied. Failures are contained to the
// source: the next URL in the list is tried.
func (s *Scheduler) collectSources(ctx context.Context, urls []string, merged PartialConditions, satisfied func(PartialConditions) bool) PartialConditions {
	for _, url := range urls {
		if satisfied(merged) {
			return merged
		}
		partial, err := s.fetchAndParse(ctx, url)
		if err != nil {
			s.cfg.logger.Warn("scheduler: source failed, trying fallback", "url", url, "error", err)
			continue
		}
		merged = mergePartial(merged, partial)
	}
	return merged
}

func (s *Scheduler) fetchAndParse(ctx context.Context, url string) (PartialConditions, error) {
	adapter, name, err := adapterForURL(url)
	if err != nil {
		return PartialConditions{}, err
	}
	body, _, err := fetchJSON(ctx, s.cfg.httpClient, url)
	if err != nil {
		return PartialConditions{}, err
	}
	partial, err := adapter(bytes.NewReader(body), time.Now(), s.cfg.logger)
	if err != nil {
		return PartialConditions{}, err
	}
	s.cfg.logger.Debug("scheduler: source parsed", "adapter", name, "url", url)
	return partial, nil
}
