package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User represents a registered account that can build carts and check out.
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	AccountKey   string    `json:"account_key" db:"account_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserCreateRequest represents the data needed to register a user
type UserCreateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate validates user registration data
func (req *UserCreateRequest) Validate() error {
	if strings.TrimSpace(req.Email) == "" {
		return errors.New("email is required")
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("email is not a valid address")
	}

	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}

	if len(req.Name) > 100 {
		return errors.New("name must be less than 100 characters")
	}

	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	return nil
}
