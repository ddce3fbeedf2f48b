package v1

import (
	"time"

	"github.com/google/uuid"
)

// StartCheckInRequest DTO для запуска таймера безопасности
// @Description DTO для запуска таймера безопасности
type StartCheckInRequest struct {
	DurationMinutes int `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
}

// LocationReportRequest DTO для передачи геопозиции устройства
// @Description DTO для передачи геопозиции устройства
type LocationReportRequest struct {
	Latitude   *float64   `json:"latitude" validate:"required,latitude"`
	Longitude  *float64   `json:"longitude" validate:"required,longitude"`
	Accuracy   float64    `json:"accuracy" validate:"gte=0"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}

// LocationReportResponse DTO для ответа на передачу позиции
// @Description accepted=false, если нет активной сессии или позиция устарела
type LocationReportResponse struct {
	Accepted bool `json:"accepted"`
}

// ContactRequest DTO для создания и обновления доверенного контакта
// @Description DTO для создания и обновления доверенного контакта
type ContactRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,max=32"`
	Relationship string `json:"relationship" validate:"required"`
}

// ContactResponse DTO для ответа с доверенным контактом
// @Description DTO для ответа с доверенным контактом
type ContactResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LocationResponse DTO геопозиции
type LocationResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

// SessionResponse DTO тревожной сессии
// @Description DTO тревожной сессии
type SessionResponse struct {
	ID              uuid.UUID         `json:"id"`
	Kind            string            `json:"kind"`
	Status          string            `json:"status"`
	StartedAt       time.Time         `json:"started_at"`
	DurationSeconds *int              `json:"duration_seconds,omitempty"`
	ExpiresAt       *time.Time        `json:"expires_at,omitempty"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	LastLocation    *LocationResponse `json:"last_location,omitempty"`
}

// SnapshotResponse DTO текущего состояния сессии
// @Description remaining_seconds считается только для активного таймера
type SnapshotResponse struct {
	Session          *SessionResponse `json:"session"`
	RemainingSeconds int              `json:"remaining_seconds"`
	ElapsedSeconds   int              `json:"elapsed_seconds"`
	LowTime          bool             `json:"low_time"`
	LocationAcquired bool             `json:"location_acquired"`
}

// SOSResponse DTO ответа на запуск SOS
// @Description Состояние сессии и ссылка для звонка в экстренную службу
type SOSResponse struct {
	*SnapshotResponse
	DialURI string `json:"dial_uri"`
}

// LocationPointResponse DTO точки трека
type LocationPointResponse struct {
	ID int64 `json:"id"`
	LocationResponse
}
