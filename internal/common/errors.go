// Package common defines shared sentinel errors used across the storage,
// service and bot layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Crypto errors (malformed blob or failed authentication tag).
	ErrDecryption = errors.New("decryption failed")

	// Input errors translated into a corrective prompt for the sender.
	ErrValidation = errors.New("validation error")

	// Sender identity mismatch; dropped silently, never reported back.
	ErrUnauthorized = errors.New("unauthorized")
)
