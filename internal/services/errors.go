// Package services implements business logic above the store. This file
// centralizes service-level sentinel errors; translation into HTTP statuses
// and envelope messages happens at the handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrEmailTaken is returned on registration when the email is in use.
	ErrEmailTaken = errors.New("user already exists")

	// ErrEmailNotFound is returned on login when no account has the email.
	ErrEmailNotFound = errors.New("email not found")

	// ErrInvalidCredentials is returned on login when the password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the subject of a verified token no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive indicates the subject's account has been deactivated.
	// Kept separate from token validity: a deactivated subject with a valid
	// token is its own 401 cause.
	ErrUserInactive = errors.New("user account is inactive")
)
