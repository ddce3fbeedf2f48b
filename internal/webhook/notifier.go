package webhook

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/safety"
	"github.com/sirupsen/logrus"
)

// ContactLister отдаёт доверенные контакты пользователя
type ContactLister interface {
	ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
}

// SessionNotifier превращает события сессии в вебхуки для доверенных контактов
type SessionNotifier struct {
	publisher       WebhookPublisher
	contacts        ContactLister
	clock           safety.Clock
	logger          *logrus.Logger
	emergencyNumber string
}

func NewSessionNotifier(publisher WebhookPublisher, contacts ContactLister, clock safety.Clock, logger *logrus.Logger, emergencyNumber string) *SessionNotifier {
	if clock == nil {
		clock = safety.SystemClock{}
	}
	return &SessionNotifier{
		publisher:       publisher,
		contacts:        contacts,
		clock:           clock,
		logger:          logger,
		emergencyNumber: emergencyNumber,
	}
}

// Notify публикует событие. Без списка контактов событие всё равно уходит.
func (n *SessionNotifier) Notify(ctx context.Context, session *models.AlertSession, event models.SessionEvent) error {
	log := n.logger.WithFields(logrus.Fields{
		"service":    "webhook",
		"method":     "Notify",
		"session_id": session.ID,
		"event":      event,
	})

	contacts, err := n.contacts.ListContacts(ctx, session.UserID)
	if err != nil {
		log.WithError(err).Warn("Failed to list trusted contacts, publishing without them")
		contacts = nil
	}

	webhookEvent := WebhookEvent{
		SessionID: session.ID.String(),
		UserID:    session.UserID.String(),
		Kind:      session.Kind,
		Event:     event,
		Status:    session.Status,
		Location:  session.LastLocation,
		Contacts:  contacts,
		Timestamp: n.clock.Now(),
	}
	if needsEmergencyDial(session, event) && n.emergencyNumber != "" {
		webhookEvent.EmergencyNumber = n.emergencyNumber
		webhookEvent.DialURI = safety.DialURI(n.emergencyNumber)
	}

	if err := n.publisher.Publish(ctx, webhookEvent); err != nil {
		return fmt.Errorf("webhook: could not publish %s event: %w", event, err)
	}
	log.WithField("contacts", len(contacts)).Info("Session event published")
	return nil
}

// needsEmergencyDial - старт SOS и истёкший таймер требуют звонка в экстренную службу
func needsEmergencyDial(session *models.AlertSession, event models.SessionEvent) bool {
	switch event {
	case models.SessionEventStarted:
		return session.Kind == models.SessionKindSOS
	case models.SessionEventExpired:
		return true
	}
	return false
}
