package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/config"
	"github.com/shenikar/safety_guardian/internal/safety"
	"github.com/shenikar/safety_guardian/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	safetyService  service.SafetyService
	contactService service.ContactService
	logger         *logrus.Logger
	validate       *validator.Validate
	cfg            *config.Config
	sosLimiter     gin.HandlerFunc
}

// NewHandler создает хэндлер; sosLimiter может быть nil
func NewHandler(safetyService service.SafetyService, contactService service.ContactService, logger *logrus.Logger, cfg *config.Config, sosLimiter gin.HandlerFunc) *Handler {
	if sosLimiter == nil {
		sosLimiter = func(c *gin.Context) { c.Next() }
	}
	return &Handler{
		safetyService:  safetyService,
		contactService: contactService,
		logger:         logger,
		validate:       validator.New(),
		cfg:            cfg,
		sosLimiter:     sosLimiter,
	}
}

// @Summary Start an SOS alert
// @Description Start an SOS session for the caller. Contacts are notified and the emergency dial URI is returned.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Success 201 {object} SOSResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Session already active"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/sos [post]
func (h *Handler) startSOS(c *gin.Context) {
	userID := currentUser(c)
	log := h.logger.WithField("method", "startSOS").WithField("user_id", userID)

	snap, err := h.safetyService.StartSOS(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, SOSResponse{
		SnapshotResponse: SnapshotToResponse(snap),
		DialURI:          safety.DialURI(h.cfg.EmergencyNumber),
	})
}

// @Summary Start a check-in timer
// @Description Start a check-in timer. Requires at least one trusted contact.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param checkin body StartCheckInRequest true "Timer duration"
// @Success 201 {object} SnapshotResponse
// @Failure 400 {object} map[string]string "Invalid request body or duration"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Session already active"
// @Failure 412 {object} map[string]string "No trusted contacts"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/checkin [post]
func (h *Handler) startCheckIn(c *gin.Context) {
	var input StartCheckInRequest
	userID := currentUser(c)
	log := h.logger.WithField("method", "startCheckIn").WithField("user_id", userID)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.safetyService.StartCheckIn(c.Request.Context(), userID, input.DurationMinutes*60)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, SnapshotToResponse(snap))
}

// @Summary Get the current session
// @Description Get the caller's current or most recent session with remaining and elapsed time.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} SnapshotResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/active [get]
func (h *Handler) getActiveSession(c *gin.Context) {
	userID := currentUser(c)
	log := h.logger.WithField("method", "getActiveSession").WithField("user_id", userID)

	snap, err := h.safetyService.Status(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, SnapshotToResponse(snap))
}

// @Summary Mark the user safe
// @Description Resolve the active SOS or check-in session.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} SnapshotResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active session"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/active/resolve [post]
func (h *Handler) resolveSession(c *gin.Context) {
	userID := currentUser(c)
	log := h.logger.WithField("method", "resolveSession").WithField("user_id", userID)

	snap, err := h.safetyService.Resolve(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, SnapshotToResponse(snap))
}

// @Summary Cancel the active session
// @Description Cancel the active SOS or check-in session.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} SnapshotResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active session"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/active/cancel [post]
func (h *Handler) cancelSession(c *gin.Context) {
	userID := currentUser(c)
	log := h.logger.WithField("method", "cancelSession").WithField("user_id", userID)

	snap, err := h.safetyService.Cancel(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, SnapshotToResponse(snap))
}

// @Summary Get session history
// @Description Get a paginated list of the caller's sessions, newest first.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions [get]
func (h *Handler) listSessions(c *gin.Context) {
	userID := currentUser(c)
	log := h.logger.WithField("method", "listSessions").WithField("user_id", userID)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	sessions, err := h.safetyService.History(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToSessionResponses(sessions))
}

// @Summary Get the location trail of a session
// @Description Get every location recorded while the session was active, oldest first.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Session ID"
// @Success 200 {array} LocationPointResponse
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/{id}/locations [get]
func (h *Handler) getSessionTrail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	userID := currentUser(c)
	log := h.logger.WithField("method", "getSessionTrail").WithField("user_id", userID).WithField("id", id)

	points, err := h.safetyService.Trail(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToLocationPointResponses(points))
}

// @Summary Report device location
// @Description Store the device's latest fix and attach it to the active session, if any.
// @Tags Location
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param location body LocationReportRequest true "Location fix"
// @Success 200 {object} LocationReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location [post]
func (h *Handler) reportLocation(c *gin.Context) {
	var input LocationReportRequest
	userID := currentUser(c)
	log := h.logger.WithField("method", "reportLocation").WithField("user_id", userID)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted, err := h.safetyService.ReportLocation(c.Request.Context(), userID, DTOToLocationModel(input))
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, LocationReportResponse{Accepted: accepted})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError переводит доменные ошибки в HTTP-статусы
func (h *Handler) writeError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, safety.ErrValidation):
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, safety.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
	case errors.Is(err, safety.ErrNoActiveSession):
		log.WithError(err).Info("No active session")
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
	case errors.Is(err, service.ErrNotFound):
		log.WithError(err).Warn("Resource not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, safety.ErrConflict):
		log.WithError(err).Warn("Session already active")
		c.JSON(http.StatusConflict, gin.H{"error": "a session is already active"})
	case errors.Is(err, safety.ErrPrecondition):
		log.WithError(err).Warn("Precondition failed")
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "add at least one trusted contact first"})
	default:
		log.WithError(err).Error("Request failed in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
