package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"healthwatch/internal/domain/model"
	"healthwatch/internal/domain/usecase/health"
	"healthwatch/pkg/log"
	"healthwatch/pkg/msg"
)

const defaultDebounceWindow = 2 * time.Second

// ConnectivitySource is the change stream the scheduler watches for
// offline-to-online transitions
type ConnectivitySource interface {
	CurrentStatus() model.ConnectivityStatus
	Subscribe() (<-chan model.ConnectivityStatus, func())
}

// HealthScheduler drives the poller on a fixed interval and re-triggers it
// immediately on an offline-to-online transition. Both wake sources feed one
// single-slot trigger queue, so bursts coalesce and checks never overlap.
type HealthScheduler struct {
	useCase      health.UseCase
	connectivity ConnectivitySource

	mu       sync.Mutex
	cron     *cron.Cron
	interval time.Duration
	running  bool

	debounce    time.Duration
	lastTrigger time.Time

	trigger     chan struct{}
	stop        chan struct{}
	unsubscribe func()
	wg          sync.WaitGroup
}

// NewHealthScheduler creates a scheduler for the given poller
func NewHealthScheduler(useCase health.UseCase, connectivity ConnectivitySource) *HealthScheduler {
	return &HealthScheduler{
		useCase:      useCase,
		connectivity: connectivity,
		debounce:     defaultDebounceWindow,
	}
}

// WithDebounce overrides the transition debounce window
func (scheduler *HealthScheduler) WithDebounce(window time.Duration) *HealthScheduler {
	if window > 0 {
		scheduler.debounce = window
	}
	return scheduler
}

// Start begins the repeating timer and the connectivity watch
func (scheduler *HealthScheduler) Start(interval time.Duration) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.running {
		return nil
	}

	scheduler.trigger = make(chan struct{}, 1)
	scheduler.stop = make(chan struct{})

	if err := scheduler.startCronLocked(interval); err != nil {
		return err
	}

	events, cancel := scheduler.connectivity.Subscribe()
	scheduler.unsubscribe = cancel

	scheduler.running = true

	scheduler.wg.Add(2)
	go scheduler.runLoop()
	go scheduler.watchConnectivity(events)

	log.Info(msg.GetMessage("monitor.scheduler.started", interval.String()))
	return nil
}

// startCronLocked creates and starts the interval timer; callers hold mu
func (scheduler *HealthScheduler) startCronLocked(interval time.Duration) error {
	scheduled := cron.New()
	if _, err := scheduled.AddFunc("@every "+interval.String(), scheduler.requestCheck); err != nil {
		return err
	}
	scheduled.Start()
	scheduler.cron = scheduled
	scheduler.interval = interval
	return nil
}

// requestCheck queues one check; a trigger arriving while one is already
// queued is coalesced into it
func (scheduler *HealthScheduler) requestCheck() {
	select {
	case scheduler.trigger <- struct{}{}:
	default:
	}
}

// runLoop executes queued checks one at a time
func (scheduler *HealthScheduler) runLoop() {
	defer scheduler.wg.Done()
	for {
		select {
		case <-scheduler.trigger:
			scheduler.useCase.PerformCheck(context.Background())
		case <-scheduler.stop:
			return
		}
	}
}

// watchConnectivity triggers a check on every offline-to-online transition,
// debounced so one event burst produces at most one trigger
func (scheduler *HealthScheduler) watchConnectivity(events <-chan model.ConnectivityStatus) {
	defer scheduler.wg.Done()
	previous := scheduler.connectivity.CurrentStatus()
	for {
		select {
		case status := <-events:
			wasOnline := previous == model.ConnectivityOnline
			previous = status
			if status != model.ConnectivityOnline || wasOnline {
				continue
			}
			scheduler.mu.Lock()
			debounced := time.Since(scheduler.lastTrigger) < scheduler.debounce
			if !debounced {
				scheduler.lastTrigger = time.Now()
			}
			scheduler.mu.Unlock()
			if debounced {
				continue
			}
			log.Info(msg.GetMessage("monitor.scheduler.online-trigger"))
			scheduler.requestCheck()
		case <-scheduler.stop:
			return
		}
	}
}

// Stop cancels the timer and the connectivity subscription and waits for the
// loops to drain. An in-flight check runs to completion.
func (scheduler *HealthScheduler) Stop() {
	scheduler.mu.Lock()
	if !scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = false
	scheduled := scheduler.cron
	scheduler.cron = nil
	unsubscribe := scheduler.unsubscribe
	scheduler.unsubscribe = nil
	scheduler.mu.Unlock()

	if scheduled != nil {
		cronCtx := scheduled.Stop()
		<-cronCtx.Done()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	close(scheduler.stop)
	scheduler.wg.Wait()
	log.Info(msg.GetMessage("monitor.scheduler.stopped"))
}

// Reconfigure swaps the timer for one with the new interval. In-flight
// checks are unaffected; only future scheduling changes.
func (scheduler *HealthScheduler) Reconfigure(interval time.Duration) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.running {
		scheduler.interval = interval
		return nil
	}
	if interval == scheduler.interval {
		return nil
	}
	if scheduler.cron != nil {
		cronCtx := scheduler.cron.Stop()
		<-cronCtx.Done()
	}
	if err := scheduler.startCronLocked(interval); err != nil {
		return err
	}
	log.Info(msg.GetMessage("monitor.scheduler.reconfigured", interval.String()))
	return nil
}

// Interval returns the currently configured polling interval
func (scheduler *HealthScheduler) Interval() time.Duration {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.interval
}
