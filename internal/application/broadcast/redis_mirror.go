package broadcast

import (
	"context"
	"time"

	"healthwatch/internal/domain/model"
	"healthwatch/pkg/log"
	"healthwatch/pkg/redis"
)

const mirrorPublishTimeout = 2 * time.Second

// RedisMirror republishes every broadcast onto a Redis channel so observers
// in other processes receive the same stream. Publish failures are logged and
// swallowed; the in-process broadcast already succeeded.
type RedisMirror struct {
	publisher *redis.Publisher
	channel   string
}

// NewRedisMirror creates a mirror publishing to the given channel
func NewRedisMirror(publisher *redis.Publisher, channel string) *RedisMirror {
	return &RedisMirror{publisher: publisher, channel: channel}
}

func (m *RedisMirror) Mirror(result *model.ApplicationHealth) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorPublishTimeout)
	defer cancel()
	if err := m.publisher.PublishJSON(ctx, m.channel, result); err != nil {
		log.Warnf("Failed to mirror health result to Redis: %v", err)
	}
}
