package models

import (
	"time"

	"github.com/google/uuid"
)

// Location - геопозиция устройства с точностью в метрах
type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

// LocationPoint представляет запись трека местоположения во время активной сессии
type LocationPoint struct {
	ID        int64     `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Location
}
