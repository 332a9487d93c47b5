package notify

import (
	"context"
	"sync"
	"time"

	"healthwatch/internal/domain/model"
	"healthwatch/pkg/log"
)

const sendTimeout = 5 * time.Second

// QueueSender delivers one serialized message to a queue
type QueueSender interface {
	SendMessage(ctx context.Context, queueURL string, body any) error
}

// Subscription is the broadcast stream the notifier listens on
type Subscription interface {
	Subscribe() (<-chan *model.ApplicationHealth, func())
}

// TransitionMessage is sent whenever the overall classification changes
type TransitionMessage struct {
	Previous     model.HealthStatus       `json:"previous"`
	Current      model.HealthStatus       `json:"current"`
	Connectivity model.ConnectivityStatus `json:"connectivity"`
	CheckedAt    time.Time                `json:"checked_at"`
}

// Notifier watches the broadcast stream and sends a queue message on every
// overall-status transition. Send failures are logged; the next transition
// is still reported.
type Notifier struct {
	sender   QueueSender
	stream   Subscription
	queueURL string

	mu       sync.Mutex
	previous model.HealthStatus
	cancel   func()
	stop     chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewNotifier creates a notifier for the given queue
func NewNotifier(sender QueueSender, stream Subscription, queueURL string) *Notifier {
	return &Notifier{sender: sender, stream: stream, queueURL: queueURL, previous: model.StatusUnknown}
}

// Start subscribes to the broadcast stream and begins watching for transitions
func (n *Notifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.running {
		return
	}
	events, cancel := n.stream.Subscribe()
	n.cancel = cancel
	n.stop = make(chan struct{})
	n.running = true

	n.wg.Add(1)
	go n.watch(events)
}

func (n *Notifier) watch(events <-chan *model.ApplicationHealth) {
	defer n.wg.Done()
	for {
		select {
		case result := <-events:
			if result == nil {
				continue
			}
			n.handle(result)
		case <-n.stop:
			return
		}
	}
}

func (n *Notifier) handle(result *model.ApplicationHealth) {
	n.mu.Lock()
	previous := n.previous
	if previous == result.Overall {
		n.mu.Unlock()
		return
	}
	n.previous = result.Overall
	n.mu.Unlock()

	message := TransitionMessage{
		Previous:     previous,
		Current:      result.Overall,
		Connectivity: result.Connectivity,
		CheckedAt:    result.ComputedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := n.sender.SendMessage(ctx, n.queueURL, message); err != nil {
		log.Errorw("Failed to send health transition notification",
			"previous", string(previous), "current", string(result.Overall), "error", err.Error())
		return
	}
	log.Infow("Health transition notification sent",
		"previous", string(previous), "current", string(result.Overall))
}

// Stop cancels the subscription and waits for the watch loop to exit
func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	cancel := n.cancel
	n.cancel = nil
	n.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	close(n.stop)
	n.wg.Wait()
}
