package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_guardian/internal/models"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	webhookQueueKey = "webhook_events"
)

// WebhookEvent - структура для данных вебхука о смене состояния тревожной сессии
type WebhookEvent struct {
	SessionID       string               `json:"session_id"`
	UserID          string               `json:"user_id"`
	Kind            models.SessionKind   `json:"kind"`
	Event           models.SessionEvent  `json:"event"`
	Status          models.SessionStatus `json:"status"`
	Location        *models.Location     `json:"location,omitempty"`
	Contacts        []*models.Contact    `json:"contacts,omitempty"` // Кого оповестить
	EmergencyNumber string               `json:"emergency_number,omitempty"`
	DialURI         string               `json:"dial_uri,omitempty"`
	Timestamp       time.Time            `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
