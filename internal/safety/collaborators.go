package safety

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
)

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

// SessionStore - долговременное хранилище сессий.
// Create должен вернуть ошибку, оборачивающую ErrConflict, если у пользователя уже есть активная сессия.
// UpdateStatus меняет только активную сессию; если она уже завершена, метод записывает в session
// сохранённые статус и время завершения и возвращает ошибку, оборачивающую ErrConflict.
type SessionStore interface {
	Create(ctx context.Context, session *models.AlertSession) error
	UpdateStatus(ctx context.Context, session *models.AlertSession) error
	SaveLocation(ctx context.Context, session *models.AlertSession, loc models.Location) error
}

// ContactCounter отдаёт число доверенных контактов пользователя
type ContactCounter interface {
	CountContacts(ctx context.Context, userID uuid.UUID) (int, error)
}

// Notifier рассылает событие сессии доверенным контактам
type Notifier interface {
	Notify(ctx context.Context, session *models.AlertSession, event models.SessionEvent) error
}

// LocationProvider возвращает последнюю известную позицию устройства пользователя
type LocationProvider interface {
	CurrentLocation(ctx context.Context, userID uuid.UUID) (*models.Location, error)
}

// Recorder собирает счётчики жизненного цикла
type Recorder interface {
	SessionStarted(kind models.SessionKind)
	SessionEnded(kind models.SessionKind, status models.SessionStatus)
	CollaboratorError(collaborator string)
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted(models.SessionKind) {}
func (nopRecorder) SessionEnded(models.SessionKind, models.SessionStatus) {}
func (nopRecorder) CollaboratorError(string) {}
