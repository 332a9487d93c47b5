package connectivity_test

import (
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthwatch/internal/domain/model"
	"healthwatch/internal/infra/connectivity"
)

type switchableLister struct {
	mu         sync.Mutex
	interfaces []net.Interface
	err        error
}

func (l *switchableLister) list() ([]net.Interface, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interfaces, l.err
}

func (l *switchableLister) set(interfaces []net.Interface, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.interfaces = interfaces
	l.err = err
}

func activeInterface() net.Interface {
	return net.Interface{Name: "eth0", Flags: net.FlagUp | net.FlagRunning}
}

func loopbackInterface() net.Interface {
	return net.Interface{Name: "lo", Flags: net.FlagUp | net.FlagRunning | net.FlagLoopback}
}

func downInterface() net.Interface {
	return net.Interface{Name: "wlan0", Flags: 0}
}

func TestCurrentStatusBeforeAnyObservation(t *testing.T) {
	monitor := connectivity.NewMonitor()
	assert.Equal(t, model.ConnectivityUnknown, monitor.CurrentStatus())
}

func TestCheckNowClassification(t *testing.T) {
	tests := []struct {
		name       string
		interfaces []net.Interface
		err        error
		expected   model.ConnectivityStatus
	}{
		{
			name:       "active interface is online",
			interfaces: []net.Interface{loopbackInterface(), activeInterface()},
			expected:   model.ConnectivityOnline,
		},
		{
			name:       "only loopback is offline",
			interfaces: []net.Interface{loopbackInterface()},
			expected:   model.ConnectivityOffline,
		},
		{
			name:       "down interfaces are offline",
			interfaces: []net.Interface{downInterface()},
			expected:   model.ConnectivityOffline,
		},
		{
			name:       "no interfaces is offline",
			interfaces: nil,
			expected:   model.ConnectivityOffline,
		},
		{
			name:     "query failure is unknown",
			err:      errors.New("netlink unavailable"),
			expected: model.ConnectivityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &switchableLister{interfaces: tt.interfaces, err: tt.err}
			monitor := connectivity.NewMonitor().WithLister(lister.list)

			assert.Equal(t, tt.expected, monitor.CheckNow())
			assert.Equal(t, tt.expected, monitor.CurrentStatus())
		})
	}
}

func TestSubscribeEmitsOnChangeOnly(t *testing.T) {
	lister := &switchableLister{interfaces: []net.Interface{activeInterface()}}
	monitor := connectivity.NewMonitor().WithLister(lister.list)

	events, cancel := monitor.Subscribe()
	defer cancel()

	// first observation counts as a change
	monitor.CheckNow()
	select {
	case status := <-events:
		assert.Equal(t, model.ConnectivityOnline, status)
	default:
		t.Fatal("expected an event for the first observation")
	}

	// same value again must not emit
	monitor.CheckNow()
	select {
	case status := <-events:
		t.Fatalf("unexpected event %q for unchanged status", status)
	default:
	}

	// transition to offline emits
	lister.set([]net.Interface{loopbackInterface()}, nil)
	monitor.CheckNow()
	select {
	case status := <-events:
		assert.Equal(t, model.ConnectivityOffline, status)
	default:
		t.Fatal("expected an event for the offline transition")
	}
}

func TestCancelledSubscriptionReceivesNothing(t *testing.T) {
	lister := &switchableLister{interfaces: []net.Interface{activeInterface()}}
	monitor := connectivity.NewMonitor().WithLister(lister.list)

	events, cancel := monitor.Subscribe()
	cancel()

	monitor.CheckNow()
	select {
	case status := <-events:
		t.Fatalf("unexpected event %q after cancel", status)
	default:
	}
}

func TestStartStopLifecycle(t *testing.T) {
	lister := &switchableLister{interfaces: []net.Interface{activeInterface()}}
	monitor := connectivity.NewMonitor().WithLister(lister.list)

	monitor.Start()
	monitor.Stop()

	// stop is idempotent
	monitor.Stop()
	require.Equal(t, model.ConnectivityOnline, monitor.CheckNow())
}
