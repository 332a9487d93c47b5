package broadcast

import (
	"sync"

	"healthwatch/internal/domain/model"
)

// subscriber buffer; on overflow the oldest value is dropped so a slow
// consumer never blocks a publish
const subscriberBufferSize = 8

// Mirror republishes every broadcast to an out-of-process channel. Optional.
type Mirror interface {
	Mirror(result *model.ApplicationHealth)
}

// Broadcaster multicasts every newly computed ApplicationHealth to all
// current subscribers and retains only the latest value for late arrivals.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[int]chan *model.ApplicationHealth
	nextID  int
	current *model.ApplicationHealth
	mirror  Mirror
}

// New creates an empty broadcaster
func New() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan *model.ApplicationHealth)}
}

// WithMirror attaches an out-of-process mirror for every publish
func (b *Broadcaster) WithMirror(mirror Mirror) *Broadcaster {
	b.mirror = mirror
	return b
}

// Subscribe returns a channel receiving every future publish plus a cancel
// function that must be called to release the subscription. History is not
// replayed; use Current for the latest value.
func (b *Broadcaster) Subscribe() (<-chan *model.ApplicationHealth, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan *model.ApplicationHealth, subscriberBufferSize)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}

// Publish fans the result out to all active subscribers without blocking.
// When a subscriber's buffer is full its oldest value is dropped.
func (b *Broadcaster) Publish(result *model.ApplicationHealth) {
	b.mu.Lock()
	b.current = result
	targets := make([]chan *model.ApplicationHealth, 0, len(b.subs))
	for _, ch := range b.subs {
		targets = append(targets, ch)
	}
	b.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- result:
		default:
			// buffer full: drop the oldest value and retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- result:
			default:
			}
		}
	}

	if b.mirror != nil {
		b.mirror.Mirror(result)
	}
}

// Current returns the most recent published value, or nil before the first check
func (b *Broadcaster) Current() *model.ApplicationHealth {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}
