package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"messaging_service/internal/chat/domain"
	"messaging_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultChannelPrefix per-user channel prefix
const DefaultChannelPrefix = "chat:user:"

// RedisPubSub definition redis pub/sub, one channel per recipient
type RedisPubSub struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client redis.UniversalClient, prefix string) *RedisPubSub {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPubSub{client: client, prefix: prefix}
}

// Channel name of the user's channel
func (r *RedisPubSub) Channel(userID uint) string {
	return r.prefix + strconv.FormatUint(uint64(userID), 10)
}

// Publish 將 event 序列化後，發布到每個 recipient 的 channel
func (r *RedisPubSub) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, id := range event.Recipients {
		pipe.Publish(ctx, r.Channel(id), data)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Subscribe 訂閱自己的 channel，收到 event 後呼叫 handler; returns once the subscription is confirmed
func (r *RedisPubSub) Subscribe(ctx context.Context, userID uint, handler func(domain.Event)) error {
	channel := r.Channel(userID)
	sub := r.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				var event domain.Event
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Log.Error("decode push event", zap.String("channel", channel), zap.Error(err))
					continue
				}
				handler(event)
			case <-ctx.Done():
				logger.Log.Debug("subscription closed", zap.String("channel", channel))
				return
			}
		}
	}()
	return nil
}
