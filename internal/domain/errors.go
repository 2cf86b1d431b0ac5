package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound   = errors.New("signaling session not found")
	ErrMissingCredential = errors.New("relay credential is not configured")
	ErrCharacterNotFound = errors.New("character not found")
	ErrInvalidPassword   = errors.New("invalid character password")
)

// UpstreamError сохраняет статус и тело ответа relay как есть.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Body)
}
