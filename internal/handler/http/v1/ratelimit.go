package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

// ActiveSessionFunc сообщает, есть ли у пользователя активная сессия
type ActiveSessionFunc func(ctx context.Context, userID uuid.UUID) bool

// SessionActivity строит ActiveSessionFunc поверх сервиса; ошибка сервиса считается отсутствием сессии
func SessionActivity(safetyService service.SafetyService) ActiveSessionFunc {
	return func(ctx context.Context, userID uuid.UUID) bool {
		snap, err := safetyService.Status(ctx, userID)
		return err == nil && snap != nil && snap.Session.IsActive()
	}
}

// NewSOSRateLimiter ограничивает повторные нажатия SOS, rate в формате limiter ("5-M").
// Сверх лимита отвечает 429 только пока у пользователя уже идёт сессия: первый SOS после
// отмены проходит всегда.
func NewSOSRateLimiter(rate string, store limiter.Store, log *logrus.Logger, hasActive ActiveSessionFunc) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid SOS rate limit %q: %w", rate, err)
	}

	return mgin.NewMiddleware(limiter.New(store, r),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return "sos:" + currentUser(c).String()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			userID := currentUser(c)
			if hasActive == nil || !hasActive(c.Request.Context(), userID) {
				log.WithField("user_id", userID).Info("SOS rate limit reached without an active session, letting request through")
				c.Next()
				return
			}
			log.WithField("user_id", userID).Warn("SOS rate limit reached")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many SOS requests, try again shortly"})
		}),
		// Недоступное хранилище лимитов не блокирует SOS
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.WithError(err).Warn("Rate limiter store failed, letting request through")
			c.Next()
		}),
	), nil
}
