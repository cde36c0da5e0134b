package websocket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
)

// NotificationChannel - канал Pub/Sub для доставки уведомлений между экземплярами
const NotificationChannel = "tutorconnect:notifications"

// NoOpPubSub реализует PubSubProvider для одиночного режима работы
type NoOpPubSub struct{}

// Publish ничего не делает в одиночном режиме
func (p *NoOpPubSub) Publish(ctx context.Context, channel string, message []byte) error {
	return nil
}

// Subscribe возвращает канал, который закрывается вместе с контекстом
func (p *NoOpPubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	msgCh := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(msgCh)
	}()
	return msgCh, nil
}

// Close реализует PubSubProvider.Close
func (p *NoOpPubSub) Close() error {
	return nil
}

// RedisPubSub реализует PubSubProvider поверх Redis Pub/Sub
type RedisPubSub struct {
	client redis.UniversalClient

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed bool
}

// NewRedisPubSub создает провайдер Pub/Sub
func NewRedisPubSub(client redis.UniversalClient) (*RedisPubSub, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for RedisPubSub")
	}
	return &RedisPubSub{client: client}, nil
}

// Publish публикует сообщение в канал
func (p *RedisPubSub) Publish(ctx context.Context, channel string, message []byte) error {
	return p.client.Publish(ctx, channel, message).Err()
}

// Subscribe подписывается на канал. Канал сообщений закрывается при отмене ctx или Close.
func (p *RedisPubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("pubsub is closed")
	}
	sub := p.client.Subscribe(ctx, channel)
	p.subs = append(p.subs, sub)
	p.mu.Unlock()

	// Дожидаемся подтверждения подписки
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte, 64)
	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					sub.Close()
					return
				}
			}
		}
	}()

	log.Printf("[PubSub] Подписка на канал %s", channel)
	return out, nil
}

// Close закрывает все подписки
func (p *RedisPubSub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	var firstErr error
	for _, sub := range p.subs {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.subs = nil
	return firstErr
}
