package session

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNegativeMinutes  = errors.New("minutes must not be negative")
	ErrInvalidIdleRange = errors.New("idle event must end after it starts")
)
