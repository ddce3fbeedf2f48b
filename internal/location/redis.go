package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_guardian/internal/models"
)

// ErrNoFix возвращается, когда устройство не присылало позицию в пределах TTL
var ErrNoFix = errors.New("location: no recent fix")

// RedisProvider хранит последнюю позицию устройства и отдаёт её менеджеру сессий
type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisProvider{client: client, ttl: ttl}
}

// StoreLocation сохраняет позицию; более старая позиция не перезаписывает более свежую
func (p *RedisProvider) StoreLocation(ctx context.Context, userID uuid.UUID, loc models.Location) error {
	current, err := p.CurrentLocation(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoFix) {
		return err
	}
	if current != nil && !loc.CapturedAt.IsZero() && loc.CapturedAt.Before(current.CapturedAt) {
		return nil
	}

	val, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}
	if err := p.client.Set(ctx, key(userID), val, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}

// CurrentLocation возвращает последнюю известную позицию пользователя
func (p *RedisProvider) CurrentLocation(ctx context.Context, userID uuid.UUID) (*models.Location, error) {
	val, err := p.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoFix
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	loc := &models.Location{}
	if err := json.Unmarshal(val, loc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location: %w", err)
	}
	return loc, nil
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("location:%s", userID.String())
}
