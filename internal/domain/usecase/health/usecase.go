package health

import (
	"context"
	"time"

	"healthwatch/internal/domain/model"
)

// UseCase runs health check cycles. A check always completes with a
// well-formed ApplicationHealth; component and cache failures are folded into
// the result, never returned as errors.
type UseCase interface {
	// PerformCheck runs one check cycle: offline short-circuit, cache reuse
	// when fresh, otherwise concurrent probes of both remote endpoints.
	PerformCheck(ctx context.Context) *model.ApplicationHealth
	// ForceCheck is PerformCheck without the staleness short-circuit. It
	// still synthesizes an offline result when there is no network.
	ForceCheck(ctx context.Context) *model.ApplicationHealth
	// PerformCheckWithWait waits up to networkTimeout for connectivity when
	// offline, then runs PerformCheck. On timeout the offline result is
	// synthesized by the normal offline path.
	PerformCheckWithWait(ctx context.Context, networkTimeout time.Duration) *model.ApplicationHealth
	// WaitForConnectivity resolves true immediately when online, otherwise
	// waits for an online event until timeout. The subscription is released
	// on every path.
	WaitForConnectivity(ctx context.Context, timeout time.Duration) bool
	// SetStalenessThreshold adjusts the cache reuse window at runtime
	SetStalenessThreshold(threshold time.Duration)
}

// ConnectivityMonitor is the reachability source the poller consults
type ConnectivityMonitor interface {
	CurrentStatus() model.ConnectivityStatus
	CheckNow() model.ConnectivityStatus
	Subscribe() (<-chan model.ConnectivityStatus, func())
}

// Publisher receives every newly computed result
type Publisher interface {
	Publish(result *model.ApplicationHealth)
}
