package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"
)

type RedisBroker struct {
	client *redis.Client
	prefix string
}

func NewRedisBroker(url, prefix string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBroker{client: client, prefix: prefix}, nil
}

func (b *RedisBroker) channel(room string) string {
	return b.prefix + ":" + room
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	for _, room := range ev.Rooms {
		if err := b.client.Publish(ctx, b.channel(room), payload).Err(); err != nil {
			return fmt.Errorf("publish %s: %w", room, err)
		}
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, room string) (<-chan Event, func(), error) {
	pubsub := b.client.Subscribe(ctx, b.channel(room))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", room, err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					slog.Warn("realtime: bad payload on redis", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}
	return out, cancel, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

var _ Broker = (*RedisBroker)(nil)
