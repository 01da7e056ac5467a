package model

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// User is an immutable user entity. Mutations return a new value with
// UpdatedAt advanced; nothing modifies a User in place.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Username  string     `json:"username" db:"username"`
	FullName  string     `json:"full_name" db:"full_name"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// NewUser creates an active user after validating field constraints.
func NewUser(email, username, fullName string) (User, error) {
	if err := validateEmail(email); err != nil {
		return User{}, err
	}
	if err := ValidateUsername(username); err != nil {
		return User{}, err
	}
	if err := validateFullName(fullName); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	return User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		FullName:  fullName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateProfile returns a copy with the non-empty fields replaced. Each
// replacement field is held to the same constraints as in NewUser.
func (u User) UpdateProfile(username, fullName, email string) (User, error) {
	if username != "" {
		if err := ValidateUsername(username); err != nil {
			return User{}, err
		}
		u.Username = username
	}
	if fullName != "" {
		if err := validateFullName(fullName); err != nil {
			return User{}, err
		}
		u.FullName = fullName
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return User{}, err
		}
		u.Email = email
	}
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

// Activate returns a copy with IsActive set.
func (u User) Activate() User {
	u.IsActive = true
	u.UpdatedAt = time.Now().UTC()
	return u
}

// Deactivate returns a copy with IsActive cleared.
func (u User) Deactivate() User {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	return u
}

// RecordLogin returns a copy with LastLogin set to now.
func (u User) RecordLogin() User {
	now := time.Now().UTC()
	u.LastLogin = &now
	u.UpdatedAt = now
	return u
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("invalid email address: %s", email)
	}
	return nil
}

func validateFullName(fullName string) error {
	if l := utf8.RuneCountInString(fullName); l < 1 || l > 100 {
		return NewValidationError("full name must be between 1 and 100 characters")
	}
	return nil
}

// ValidateUsername enforces the username format rules: 3-50 characters,
// alphanumerics (any script) and underscores only, no leading
// underscore.
func ValidateUsername(username string) error {
	if l := utf8.RuneCountInString(username); l < 3 || l > 50 {
		return NewValidationError("username must be between 3 and 50 characters")
	}
	if strings.HasPrefix(username, "_") {
		return NewValidationError("username must not start with an underscore")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return NewValidationError("username may only contain alphanumerics and underscores")
		}
	}
	return nil
}
