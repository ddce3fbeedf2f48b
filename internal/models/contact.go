package models

import (
	"time"

	"github.com/google/uuid"
)

// Relationships - допустимые значения поля Relationship
var Relationships = []string{
	"Partner",
	"Parent",
	"Sibling",
	"Friend",
	"Colleague",
	"Neighbor",
	"Other",
}

// Contact - доверенный контакт пользователя
type Contact struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
