package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	userIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		isValid := false
		for _, key := range cfg.APIKeys {
			if key == apiKey {
				isValid = true
				break
			}
		}

		if !isValid {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// UserIdentityMiddleware достаёт идентификатор пользователя, проставленный шлюзом
func UserIdentityMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(userIDHeader))
		if raw == "" {
			log.Warn("User identity missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			log.WithField("user_id", raw).Warn("Invalid user identity provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUser возвращает пользователя запроса; uuid.Nil, если middleware не отработал
func currentUser(c *gin.Context) uuid.UUID {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil
	}
	userID, _ := v.(uuid.UUID)
	return userID
}
