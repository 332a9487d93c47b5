package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher handles Redis publishing operations
type Publisher struct {
	client           *Client
	channelNamespace string
}

// NewPublisher creates a new publisher. An empty namespace publishes to bare channel names.
func NewPublisher(client *Client, channelNamespace string) *Publisher {
	return &Publisher{
		client:           client,
		channelNamespace: channelNamespace,
	}
}

// buildChannelName constructs the full channel name using namespace::channelName format
func (p *Publisher) buildChannelName(channel string) string {
	if p.channelNamespace != "" {
		return p.channelNamespace + "::" + channel
	}
	return channel
}

// PublishJSON publishes a JSON message to a channel
func (p *Publisher) PublishJSON(ctx context.Context, channel string, message interface{}) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON: %w", err)
	}
	return p.client.Publish(ctx, p.buildChannelName(channel), jsonData)
}
