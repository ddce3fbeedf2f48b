package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind - тип тревожной сессии
type SessionKind string

const (
	SessionKindSOS     SessionKind = "sos"
	SessionKindCheckIn SessionKind = "checkin"
)

// SessionStatus - состояние жизненного цикла сессии
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusResolved  SessionStatus = "resolved"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusExpired   SessionStatus = "expired"
)

// IsTerminal сообщает, что из состояния больше нет переходов
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusResolved, SessionStatusCancelled, SessionStatusExpired:
		return true
	}
	return false
}

// SessionEvent - событие, о котором оповещаются доверенные контакты
type SessionEvent string

const (
	SessionEventStarted   SessionEvent = "started"
	SessionEventResolved  SessionEvent = "resolved"
	SessionEventCancelled SessionEvent = "cancelled"
	SessionEventExpired   SessionEvent = "expired"
)

// AlertSession - один эпизод SOS или таймера безопасности
type AlertSession struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	Kind            SessionKind   `json:"kind"`
	Status          SessionStatus `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	DurationSeconds *int          `json:"duration_seconds,omitempty"`
	ExpiresAt       *time.Time    `json:"expires_at,omitempty"`
	LastLocation    *Location     `json:"last_location,omitempty"`
	EndedAt         *time.Time    `json:"ended_at,omitempty"`
}

// IsActive сообщает, что сессия ещё не завершена
func (s *AlertSession) IsActive() bool {
	return s != nil && s.Status == SessionStatusActive
}

// Clone возвращает глубокую копию, чтобы не отдавать наружу внутренние указатели
func (s *AlertSession) Clone() *AlertSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.DurationSeconds != nil {
		d := *s.DurationSeconds
		c.DurationSeconds = &d
	}
	if s.ExpiresAt != nil {
		e := *s.ExpiresAt
		c.ExpiresAt = &e
	}
	if s.LastLocation != nil {
		l := *s.LastLocation
		c.LastLocation = &l
	}
	if s.EndedAt != nil {
		e := *s.EndedAt
		c.EndedAt = &e
	}
	return &c
}
