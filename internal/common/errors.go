// Package common defines sentinel errors and small helpers shared by the
// invoicekeeper packages. Callers should use errors.Is to match the errors.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Input rejected by the validation layer.
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
