package model

import (
	"time"

	"github.com/google/uuid"
)

// User owns transactions and budgets. Nothing a user owns is visible to anyone else.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
