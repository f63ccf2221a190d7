package common

import "errors"

// Business logic errors
var (
	// Auth errors
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameAlreadyExists  = errors.New("username already exists")
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
	ErrInvalidToken           = errors.New("invalid token")

	// Messaging errors
	ErrReceiverNotFound = errors.New("receiver not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
