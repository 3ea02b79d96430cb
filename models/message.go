package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a contact form submission.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"max=255"`
	Message string `json:"message" binding:"required,max=10000"`
}

type MarkReadRequest struct {
	Read *bool `json:"read" binding:"required"`
}
