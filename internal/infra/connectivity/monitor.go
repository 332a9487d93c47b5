package connectivity

import (
	"net"
	"sync"
	"time"

	"healthwatch/internal/domain/model"
	"healthwatch/pkg/log"
)

const defaultPollInterval = 5 * time.Second

// subscriber channels are buffered so a slow consumer never blocks the probe loop
const changeBufferSize = 4

// InterfaceLister reports the machine's network interfaces. Injectable for tests.
type InterfaceLister func() ([]net.Interface, error)

// Monitor tracks network reachability from the OS interface table. It keeps
// the last observed status and emits to subscribers only when the value
// changes, not on every probe.
type Monitor struct {
	mu           sync.RWMutex
	lister       InterfaceLister
	status       model.ConnectivityStatus
	observed     bool
	subs         map[int]chan model.ConnectivityStatus
	nextSubID    int
	pollInterval time.Duration
	stop         chan struct{}
	wg           sync.WaitGroup
	started      bool
}

// NewMonitor creates a monitor over the OS interface table
func NewMonitor() *Monitor {
	return &Monitor{
		lister:       net.Interfaces,
		status:       model.ConnectivityUnknown,
		subs:         make(map[int]chan model.ConnectivityStatus),
		pollInterval: defaultPollInterval,
		stop:         make(chan struct{}),
	}
}

// WithLister overrides the interface source
func (m *Monitor) WithLister(lister InterfaceLister) *Monitor {
	m.lister = lister
	return m
}

// WithPollInterval overrides how often the background loop re-probes
func (m *Monitor) WithPollInterval(interval time.Duration) *Monitor {
	if interval > 0 {
		m.pollInterval = interval
	}
	return m
}

// CurrentStatus returns the last known status, or unknown when nothing has
// been observed yet.
func (m *Monitor) CurrentStatus() model.ConnectivityStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.observed {
		return model.ConnectivityUnknown
	}
	return m.status
}

// CheckNow queries the interface table synchronously, updates the monitor
// state and returns the fresh status. A query failure maps to unknown.
func (m *Monitor) CheckNow() model.ConnectivityStatus {
	status := m.probe()
	m.update(status)
	return status
}

func (m *Monitor) probe() model.ConnectivityStatus {
	interfaces, err := m.lister()
	if err != nil {
		log.Warnf("Connectivity query failed: %v", err)
		return model.ConnectivityUnknown
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagRunning != 0 {
			return model.ConnectivityOnline
		}
	}
	return model.ConnectivityOffline
}

// update records the status and notifies subscribers on value change only
func (m *Monitor) update(status model.ConnectivityStatus) {
	m.mu.Lock()
	changed := !m.observed || m.status != status
	m.status = status
	m.observed = true
	var targets []chan model.ConnectivityStatus
	if changed {
		for _, ch := range m.subs {
			targets = append(targets, ch)
		}
	}
	m.mu.Unlock()

	if !changed {
		return
	}
	log.Infow("Connectivity changed", "status", string(status))
	for _, ch := range targets {
		select {
		case ch <- status:
		default:
			// drop for a consumer that is not keeping up
		}
	}
}

// Subscribe returns a channel receiving every status change plus a cancel
// function that must be called to release the subscription.
func (m *Monitor) Subscribe() (<-chan model.ConnectivityStatus, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	ch := make(chan model.ConnectivityStatus, changeBufferSize)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
	return ch, cancel
}

// Start launches the background probe loop. Safe to call once.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.update(m.probe())
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the background probe loop and waits for it to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	m.mu.Unlock()
	close(m.stop)
	m.wg.Wait()
}
