package domain

import "errors"

var (
	ErrInvalidSeverity = errors.New("invalid alert severity")
	ErrInvalidRule     = errors.New("invalid alert rule")
	ErrDuplicateRule   = errors.New("duplicate alert rule name")
	ErrInvalidHours    = errors.New("hours must be positive")
)
