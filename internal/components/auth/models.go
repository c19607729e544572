package auth

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID           uuid.UUID `json:"id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"` // Never serialize password hash
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	SignupIn struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginIn struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginOut struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
)
