package notify_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthwatch/internal/application/broadcast"
	"healthwatch/internal/application/notify"
	"healthwatch/internal/domain/model"
)

type captureSender struct {
	mu       sync.Mutex
	messages []notify.TransitionMessage
	queues   []string
}

func (s *captureSender) SendMessage(_ context.Context, queueURL string, body any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, body.(notify.TransitionMessage))
	s.queues = append(s.queues, queueURL)
	return nil
}

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *captureSender) last() notify.TransitionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[len(s.messages)-1]
}

func result(overall model.HealthStatus) *model.ApplicationHealth {
	return &model.ApplicationHealth{
		Overall:      overall,
		Connectivity: model.ConnectivityOnline,
		ComputedAt:   time.Now(),
	}
}

func TestNotifierSendsOnTransitionOnly(t *testing.T) {
	sender := &captureSender{}
	broadcaster := broadcast.New()
	notifier := notify.NewNotifier(sender, broadcaster, "https://queue.example/health")
	notifier.Start()
	defer notifier.Stop()

	broadcaster.Publish(result(model.StatusHealthy))
	require.Eventually(t, func() bool { return sender.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	message := sender.last()
	assert.Equal(t, model.StatusUnknown, message.Previous, "initial state is unknown")
	assert.Equal(t, model.StatusHealthy, message.Current)

	// repeated value is not a transition
	broadcaster.Publish(result(model.StatusHealthy))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, sender.count())

	broadcaster.Publish(result(model.StatusUnhealthy))
	require.Eventually(t, func() bool { return sender.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	message = sender.last()
	assert.Equal(t, model.StatusHealthy, message.Previous)
	assert.Equal(t, model.StatusUnhealthy, message.Current)
}

func TestNotifierUsesConfiguredQueue(t *testing.T) {
	sender := &captureSender{}
	broadcaster := broadcast.New()
	notifier := notify.NewNotifier(sender, broadcaster, "https://queue.example/health")
	notifier.Start()
	defer notifier.Stop()

	broadcaster.Publish(result(model.StatusUnhealthy))
	require.Eventually(t, func() bool { return sender.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, "https://queue.example/health", sender.queues[0])
}

func TestNotifierStopReleasesSubscription(t *testing.T) {
	sender := &captureSender{}
	broadcaster := broadcast.New()
	notifier := notify.NewNotifier(sender, broadcaster, "queue")
	notifier.Start()
	notifier.Stop()

	broadcaster.Publish(result(model.StatusUnhealthy))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sender.count())
}
