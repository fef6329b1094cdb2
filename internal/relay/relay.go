// Package relay delivers room events and chat payloads over Redis Pub/Sub.
// The room key doubles as the channel name; delivery is fire-and-forget.
package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tetatet/backend/internal/models"
)

// Publisher публікує в канали кімнат.
type Publisher struct {
	Client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{Client: client}
}

// PublishEvent надсилає подію життєвого циклу кімнати в її канал.
func (p *Publisher) PublishEvent(ctx context.Context, channel string, event models.RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("relay marshal event: %w", err)
	}
	if err := p.Client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("relay publish to %s: %w", channel, err)
	}
	return nil
}

// PublishMessage ретранслює непрозоре повідомлення чату в канал кімнати.
// Ядро не зберігає вміст.
func (p *Publisher) PublishMessage(ctx context.Context, channel string, msg models.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("relay marshal message: %w", err)
	}
	if err := p.Client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("relay publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe підписується на канал кімнати для push-доставки підключеним
// клієнтам (/ws). Викликач зобов'язаний закрити підписку.
func (p *Publisher) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return p.Client.Subscribe(ctx, channel)
}
