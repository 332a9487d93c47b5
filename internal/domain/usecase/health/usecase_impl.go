package health

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthwatch/internal/domain/gateway/api"
	"healthwatch/internal/domain/gateway/store"
	"healthwatch/internal/domain/model"
	"healthwatch/pkg/log"
)

type healthUseCase struct {
	gateway      api.HealthGateway
	cache        *store.Cache
	connectivity ConnectivityMonitor
	broadcaster  Publisher

	// checkMu serializes check cycles; a caller arriving during an in-flight
	// check waits for it instead of racing it
	checkMu sync.Mutex

	configMu  sync.RWMutex
	threshold time.Duration

	now func() time.Time
}

// NewHealthUseCase creates the poller with the default staleness threshold
func NewHealthUseCase(gateway api.HealthGateway, cache *store.Cache, connectivity ConnectivityMonitor, broadcaster Publisher) UseCase {
	return &healthUseCase{
		gateway:      gateway,
		cache:        cache,
		connectivity: connectivity,
		broadcaster:  broadcaster,
		threshold:    store.DefaultStalenessThreshold,
		now:          time.Now,
	}
}

func (useCase *healthUseCase) SetStalenessThreshold(threshold time.Duration) {
	if threshold <= 0 {
		return
	}
	useCase.configMu.Lock()
	defer useCase.configMu.Unlock()
	useCase.threshold = threshold
}

func (useCase *healthUseCase) stalenessThreshold() time.Duration {
	useCase.configMu.RLock()
	defer useCase.configMu.RUnlock()
	return useCase.threshold
}

func (useCase *healthUseCase) PerformCheck(ctx context.Context) *model.ApplicationHealth {
	return useCase.check(ctx, false)
}

func (useCase *healthUseCase) ForceCheck(ctx context.Context) *model.ApplicationHealth {
	return useCase.check(ctx, true)
}

func (useCase *healthUseCase) check(ctx context.Context, force bool) *model.ApplicationHealth {
	useCase.checkMu.Lock()
	defer useCase.checkMu.Unlock()

	checkID := uuid.New().String()

	connectivity := useCase.connectivity.CheckNow()
	if connectivity == model.ConnectivityOffline {
		log.Infow("Device offline, synthesizing result without network", "check_id", checkID)
		result := useCase.offlineResult()
		useCase.persistAndPublish(ctx, result, checkID)
		return result
	}

	// unknown connectivity attempts the network and falls back per probe
	if !force && !useCase.cache.IsStale(ctx, useCase.stalenessThreshold()) {
		if cached := useCase.cache.Load(ctx); cached != nil && cached.Result != nil {
			log.Infow("Reusing cached health result", "check_id", checkID,
				"cached_at", cached.LastCheckTime, "overall", string(cached.LastStatus))
			return cached.Result
		}
		// record unreadable despite a fresh timestamp; fall through to network
	}

	var systemOutcome, databaseOutcome api.ProbeOutcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		systemOutcome = useCase.gateway.SystemHealth(ctx)
	}()
	go func() {
		defer wg.Done()
		databaseOutcome = useCase.gateway.DatabaseHealth(ctx)
	}()
	wg.Wait()

	observedAt := useCase.now()
	system := componentFromProbe(systemOutcome, observedAt)
	database := componentFromProbe(databaseOutcome, observedAt)

	result := &model.ApplicationHealth{
		System:       system,
		Database:     database,
		Connectivity: connectivity,
		Overall:      Aggregate(system.Classification(), database.Classification(), connectivity),
		ComputedAt:   observedAt,
	}

	log.Infow("Health check completed", "check_id", checkID,
		"system", string(system.Classification()),
		"database", string(database.Classification()),
		"connectivity", string(connectivity),
		"overall", string(result.Overall))

	useCase.persistAndPublish(ctx, result, checkID)
	return result
}

func (useCase *healthUseCase) offlineResult() *model.ApplicationHealth {
	observedAt := useCase.now()
	offline := model.ComponentHealth{StatusText: model.StatusOffline, ObservedAt: observedAt}
	return &model.ApplicationHealth{
		System:       offline,
		Database:     offline,
		Connectivity: model.ConnectivityOffline,
		Overall:      model.StatusUnknown,
		ComputedAt:   observedAt,
	}
}

// persistAndPublish writes the cache before publishing so a subscriber that
// re-reads the cache on receipt sees data consistent with what it received.
// A persistence failure never suppresses the publish.
func (useCase *healthUseCase) persistAndPublish(ctx context.Context, result *model.ApplicationHealth, checkID string) {
	if err := useCase.cache.Save(ctx, result); err != nil {
		log.Errorw("Failed to persist health result", "check_id", checkID, "error", err.Error())
	}
	useCase.broadcaster.Publish(result)
}

func componentFromProbe(outcome api.ProbeOutcome, observedAt time.Time) model.ComponentHealth {
	if !outcome.OK {
		// empty status text classifies as unknown
		return model.ComponentHealth{ObservedAt: observedAt}
	}
	return model.ComponentHealth{
		StatusText: outcome.StatusText,
		Version:    outcome.Version,
		ObservedAt: observedAt,
	}
}

func (useCase *healthUseCase) WaitForConnectivity(ctx context.Context, timeout time.Duration) bool {
	if useCase.connectivity.CheckNow() == model.ConnectivityOnline {
		return true
	}

	events, cancel := useCase.connectivity.Subscribe()
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case status := <-events:
			if status == model.ConnectivityOnline {
				return true
			}
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

func (useCase *healthUseCase) PerformCheckWithWait(ctx context.Context, networkTimeout time.Duration) *model.ApplicationHealth {
	if useCase.connectivity.CheckNow() == model.ConnectivityOffline {
		if !useCase.WaitForConnectivity(ctx, networkTimeout) {
			log.Infow("Connectivity wait timed out, proceeding offline", "timeout", networkTimeout.String())
		}
	}
	return useCase.PerformCheck(ctx)
}
