package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// KillMessage is the message value subscribers treat as a shutdown signal.
// The publisher attaches no special handling to it.
const KillMessage = "KILL_SERVER"

// IsKill reports whether a message is the shutdown convention.
func IsKill(message string) bool {
	return message == KillMessage
}

// Broadcaster sends an opaque message to a named channel, fire and forget.
type Broadcaster interface {
	Publish(ctx context.Context, channel, message string) error
}

// Publisher broadcasts control messages to one channel.
type Publisher struct {
	log     *slog.Logger
	b       Broadcaster
	channel string
}

func NewPublisher(log *slog.Logger, b Broadcaster, channel string) *Publisher {
	return &Publisher{log: log, b: b, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, message string) error {
	const op = "pubsub.Publish"

	p.log.Info("About to send", "message", message)
	if err := p.b.Publish(ctx, p.channel, message); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Listen consumes control messages until the context ends, the stream
// closes, or the kill message arrives. Returns true when stopped by the
// kill message.
func Listen(ctx context.Context, log *slog.Logger, messages <-chan *redis.Message, onMessage func(string)) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			log.Info("control message received", "channel", msg.Channel, "payload", msg.Payload)
			if onMessage != nil {
				onMessage(msg.Payload)
			}
			if IsKill(msg.Payload) {
				return true
			}
		}
	}
}
