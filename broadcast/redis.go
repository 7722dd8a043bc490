package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultChannel is the Redis channel clients of one profile share.
const DefaultChannel = "marketplace-client:changes"

// RedisBridge relays hub events between processes over Redis pub/sub.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.SugaredLogger
}

func NewRedisBridge(client *redis.Client, channel string, hub *Hub, logger *zap.SugaredLogger) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBridge{client: client, channel: channel, hub: hub, logger: logger}
}

// Start subscribes to the channel, waits for the subscription to be
// confirmed, and relays in both directions until ctx is done.
func (b *RedisBridge) Start(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	stopForward := b.hub.Forward(func(ev Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			b.logger.Warnw("encode change event", "error", err)
			return
		}
		if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
			b.logger.Warnw("publish change event", "topic", ev.Topic, "error", err)
		}
	})

	go func() {
		defer stopForward()
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warnw("drop malformed change event", "error", err)
					continue
				}
				b.hub.Inject(ev)
			}
		}
	}()

	b.logger.Infow("change bridge started", "channel", b.channel, "origin", b.hub.Origin())
	return nil
}
