package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_guardian/internal/config"
	"github.com/sirupsen/logrus"
)

// DeliveryRecorder считает результаты доставки
type DeliveryRecorder interface {
	WebhookDelivery(result string)
}

type nopDeliveryRecorder struct{}

func (nopDeliveryRecorder) WebhookDelivery(string) {}

// WebhookWorker - структура для обработки и отправки вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	recorder    DeliveryRecorder
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config, recorder DeliveryRecorder) *WebhookWorker {
	if recorder == nil {
		recorder = nopDeliveryRecorder{}
	}
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		recorder: recorder,
	}
}

// Start запускает горутину для обработки очереди вебхуков
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping webhook worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части списка (очереди)
				result, err := w.redisClient.BRPop(ctx, 0, webhookQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) || ctx.Err() != nil {
						continue // Контекст отменен, но не ошибка Redis
					}
					w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
					sleepCtx(ctx, w.cfg.WebhookTimeout) // Ждем перед повторной попыткой
					continue
				}

				// result[0] - ключ, result[1] - значение
				payload := result[1]
				var event WebhookEvent
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
					w.recorder.WebhookDelivery("malformed")
					continue
				}

				w.processWebhookEvent(ctx, event, payload)
			}
		}
	}()
}

func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event WebhookEvent, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"event_session_id": event.SessionID,
		"event_user_id":    event.UserID,
		"event":            event.Event,
	})
	log.Debug("Processing webhook event...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		w.recorder.WebhookDelivery("skipped")
		return
	}

	if err := w.deliver(ctx, log, rawPayload); err != nil {
		log.WithError(err).Error("Failed to deliver webhook for event")
		w.recorder.WebhookDelivery("failed")
		return
	}
	w.recorder.WebhookDelivery("delivered")
}

// deliver отправляет payload с экспоненциальной задержкой между попытками
func (w *WebhookWorker) deliver(ctx context.Context, log *logrus.Entry, rawPayload string) error {
	maxRetries := w.cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	baseDelay := w.cfg.WebhookBaseDelay

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			if !sleepCtx(ctx, baseDelay) {
				return ctx.Err()
			}
			baseDelay *= 2 // Экспоненциальная задержка
		}

		lastErr = w.send(ctx, rawPayload)
		if lastErr == nil {
			log.Info("Webhook delivered successfully.")
			return nil
		}
		log.WithError(lastErr).Warnf("Webhook delivery attempt failed. Retries left: %d", maxRetries-1-i)
	}
	return fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

func (w *WebhookWorker) send(ctx context.Context, rawPayload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint responded with status %d", resp.StatusCode)
	}
	return nil
}

// sleepCtx ждёт d; false, если контекст отменён раньше
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
