package domain

import (
	"net/mail"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
}

// ValidateRegistration checks a signup request before the password is hashed.
func ValidateRegistration(name, email, password string) error {
	if err := checkLength("name", name, 5, 50); err != nil {
		return err
	}
	return ValidateCredentials(email, password)
}

// ValidateCredentials checks the shape of a login request.
func ValidateCredentials(email, password string) error {
	if err := checkLength("email", email, 5, 255); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Reason: "must be a valid email"}
	}
	return checkLength("password", password, 5, 255)
}
