package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger), UserIdentityMiddleware(h.logger))

	// Жизненный цикл тревожных сессий
	sessions := protected.Group("/sessions")
	{
		sessions.POST("/sos", h.sosLimiter, h.startSOS)
		sessions.POST("/checkin", h.startCheckIn)
		sessions.GET("", h.listSessions)
		sessions.GET("/active", h.getActiveSession)
		sessions.POST("/active/resolve", h.resolveSession)
		sessions.POST("/active/cancel", h.cancelSession)
		sessions.GET("/:id/locations", h.getSessionTrail)
	}

	// Позиция устройства
	protected.POST("/location", h.reportLocation)

	// Доверенные контакты (CRUD)
	contacts := protected.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:id", h.getContact)
		contacts.PUT("/:id", h.updateContact)
		contacts.DELETE("/:id", h.deleteContact)
	}
}
