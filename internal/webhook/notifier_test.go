package webhook_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
	service_mocks "github.com/shenikar/safety_guardian/internal/service/mocks"
	"github.com/shenikar/safety_guardian/internal/webhook"
	"github.com/shenikar/safety_guardian/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var notifiedAt = time.Date(2026, 7, 1, 22, 15, 0, 0, time.UTC)

func newTestNotifier(t *testing.T) (*webhook.SessionNotifier, *mocks.MockWebhookPublisher, *service_mocks.MockContactService) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockWebhookPublisher(ctrl)
	contacts := service_mocks.NewMockContactService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return webhook.NewSessionNotifier(publisher, contacts, fixedClock(notifiedAt), logger, "999"), publisher, contacts
}

func TestNotify_SOSStartedCarriesContactsAndDialURI(t *testing.T) {
	// Подготовка
	notifier, publisher, contacts := newTestNotifier(t)
	ctx := context.Background()
	session := &models.AlertSession{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Kind:         models.SessionKindSOS,
		Status:       models.SessionStatusActive,
		LastLocation: &models.Location{Latitude: 51.5, Longitude: -0.12},
	}
	list := []*models.Contact{{ID: uuid.New(), Name: "Anna", Phone: "+447700900123"}}

	// Ожидания
	contacts.EXPECT().ListContacts(ctx, session.UserID).Return(list, nil).Times(1)
	publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.WebhookEvent) error {
			assert.Equal(t, session.ID.String(), event.SessionID)
			assert.Equal(t, models.SessionEventStarted, event.Event)
			assert.Equal(t, "999", event.EmergencyNumber)
			assert.Equal(t, "tel:999", event.DialURI)
			assert.Equal(t, list, event.Contacts)
			assert.Equal(t, notifiedAt, event.Timestamp)
			require.NotNil(t, event.Location)
			assert.Equal(t, 51.5, event.Location.Latitude)
			return nil
		}).
		Times(1)

	// Действие
	err := notifier.Notify(ctx, session, models.SessionEventStarted)

	// Проверки
	require.NoError(t, err)
}

func TestNotify_CheckInStartedHasNoDialURI(t *testing.T) {
	notifier, publisher, contacts := newTestNotifier(t)
	ctx := context.Background()
	session := &models.AlertSession{ID: uuid.New(), UserID: uuid.New(), Kind: models.SessionKindCheckIn, Status: models.SessionStatusActive}

	contacts.EXPECT().ListContacts(ctx, session.UserID).Return(nil, nil).Times(1)
	publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.WebhookEvent) error {
			assert.Empty(t, event.DialURI)
			return nil
		}).
		Times(1)

	require.NoError(t, notifier.Notify(ctx, session, models.SessionEventStarted))
}

func TestNotify_ContactsFailureStillPublishes(t *testing.T) {
	notifier, publisher, contacts := newTestNotifier(t)
	ctx := context.Background()
	session := &models.AlertSession{ID: uuid.New(), UserID: uuid.New(), Kind: models.SessionKindCheckIn, Status: models.SessionStatusExpired}

	contacts.EXPECT().ListContacts(ctx, session.UserID).Return(nil, errors.New("db down")).Times(1)
	publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.WebhookEvent) error {
			assert.Equal(t, models.SessionEventExpired, event.Event)
			assert.Equal(t, "tel:999", event.DialURI)
			assert.Nil(t, event.Contacts)
			return nil
		}).
		Times(1)

	require.NoError(t, notifier.Notify(ctx, session, models.SessionEventExpired))
}

func TestNotify_PublishError(t *testing.T) {
	notifier, publisher, contacts := newTestNotifier(t)
	ctx := context.Background()
	session := &models.AlertSession{ID: uuid.New(), UserID: uuid.New(), Kind: models.SessionKindSOS, Status: models.SessionStatusCancelled}
	redisErr := errors.New("redis down")

	contacts.EXPECT().ListContacts(ctx, session.UserID).Return(nil, nil).Times(1)
	publisher.EXPECT().Publish(ctx, gomock.Any()).Return(redisErr).Times(1)

	err := notifier.Notify(ctx, session, models.SessionEventCancelled)

	assert.ErrorIs(t, err, redisErr)
}
