package schedule_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthwatch/internal/application/schedule"
	"healthwatch/internal/domain/model"
)

type countingUseCase struct {
	checks atomic.Int64
}

func (u *countingUseCase) PerformCheck(_ context.Context) *model.ApplicationHealth {
	u.checks.Add(1)
	return &model.ApplicationHealth{Overall: model.StatusHealthy}
}

func (u *countingUseCase) ForceCheck(ctx context.Context) *model.ApplicationHealth {
	return u.PerformCheck(ctx)
}

func (u *countingUseCase) PerformCheckWithWait(ctx context.Context, _ time.Duration) *model.ApplicationHealth {
	return u.PerformCheck(ctx)
}

func (u *countingUseCase) WaitForConnectivity(_ context.Context, _ time.Duration) bool { return true }

func (u *countingUseCase) SetStalenessThreshold(_ time.Duration) {}

type fakeSource struct {
	mu     sync.Mutex
	status model.ConnectivityStatus
	subs   []chan model.ConnectivityStatus
}

func newFakeSource(status model.ConnectivityStatus) *fakeSource {
	return &fakeSource{status: status}
}

func (s *fakeSource) CurrentStatus() model.ConnectivityStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *fakeSource) Subscribe() (<-chan model.ConnectivityStatus, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan model.ConnectivityStatus, 8)
	s.subs = append(s.subs, ch)
	return ch, func() {}
}

func (s *fakeSource) emit(status model.ConnectivityStatus) {
	s.mu.Lock()
	s.status = status
	subs := append([]chan model.ConnectivityStatus(nil), s.subs...)
	s.mu.Unlock()
	for _, ch := range subs {
		ch <- status
	}
}

func TestOnlineTransitionTriggersOneCheck(t *testing.T) {
	useCase := &countingUseCase{}
	source := newFakeSource(model.ConnectivityOffline)
	scheduler := schedule.NewHealthScheduler(useCase, source).WithDebounce(50 * time.Millisecond)

	// interval far beyond the test horizon so only transitions can trigger
	require.NoError(t, scheduler.Start(time.Hour))
	defer scheduler.Stop()

	source.emit(model.ConnectivityOnline)

	require.Eventually(t, func() bool {
		return useCase.checks.Load() == 1
	}, 2*time.Second, 10*time.Millisecond, "offline to online must trigger exactly one check")

	// staying online is not a transition
	source.emit(model.ConnectivityOnline)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), useCase.checks.Load())
}

func TestTransitionBurstIsDebounced(t *testing.T) {
	useCase := &countingUseCase{}
	source := newFakeSource(model.ConnectivityOffline)
	scheduler := schedule.NewHealthScheduler(useCase, source).WithDebounce(500 * time.Millisecond)

	require.NoError(t, scheduler.Start(time.Hour))
	defer scheduler.Stop()

	for i := 0; i < 3; i++ {
		source.emit(model.ConnectivityOnline)
		source.emit(model.ConnectivityOffline)
	}
	source.emit(model.ConnectivityOnline)

	require.Eventually(t, func() bool {
		return useCase.checks.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), useCase.checks.Load(), "a flap burst collapses into one check")
}

func TestOfflineTransitionDoesNotTrigger(t *testing.T) {
	useCase := &countingUseCase{}
	source := newFakeSource(model.ConnectivityOnline)
	scheduler := schedule.NewHealthScheduler(useCase, source)

	require.NoError(t, scheduler.Start(time.Hour))
	defer scheduler.Stop()

	source.emit(model.ConnectivityOffline)
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, useCase.checks.Load())
}

func TestIntervalTickRunsChecks(t *testing.T) {
	useCase := &countingUseCase{}
	source := newFakeSource(model.ConnectivityOnline)
	scheduler := schedule.NewHealthScheduler(useCase, source)

	require.NoError(t, scheduler.Start(time.Second))
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return useCase.checks.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond, "the periodic timer must drive checks")
}

func TestReconfigureChangesInterval(t *testing.T) {
	useCase := &countingUseCase{}
	source := newFakeSource(model.ConnectivityOnline)
	scheduler := schedule.NewHealthScheduler(useCase, source)

	require.NoError(t, scheduler.Start(time.Hour))
	defer scheduler.Stop()

	require.NoError(t, scheduler.Reconfigure(30*time.Minute))
	assert.Equal(t, 30*time.Minute, scheduler.Interval())
}

func TestStopIsIdempotent(t *testing.T) {
	useCase := &countingUseCase{}
	source := newFakeSource(model.ConnectivityOnline)
	scheduler := schedule.NewHealthScheduler(useCase, source)

	require.NoError(t, scheduler.Start(time.Hour))
	scheduler.Stop()
	scheduler.Stop()
}
