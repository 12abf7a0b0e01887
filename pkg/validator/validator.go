package validator

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidHoursParam = fmt.Errorf("invalid hours parameter")
	ErrInvalidAlertID    = fmt.Errorf("invalid alert id")
	ErrInvalidKind       = fmt.Errorf("invalid alert kind")
)

// ValidateHours parses the hours query parameter for history lookups.
// An empty value falls back to 24 hours.
func ValidateHours(raw string) (int, error) {
	if raw == "" {
		return 24, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidHoursParam, raw)
	}
	if hours < 1 || hours > 24*7 {
		return 0, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidHoursParam, 24*7)
	}
	return hours, nil
}

// ValidateAlertID checks the shape of a ledger alert id (unix-milli prefix,
// dash, random suffix) without hitting the ledger.
func ValidateAlertID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAlertID)
	}
	prefix, _, ok := strings.Cut(id, "-")
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAlertID, id)
	}
	if _, err := strconv.ParseInt(prefix, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAlertID, id)
	}
	return nil
}

// ValidateKind checks a manually created alert's kind label.
func ValidateKind(kind string) error {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return fmt.Errorf("%w: kind cannot be empty", ErrInvalidKind)
	}
	if len(kind) > 64 {
		return fmt.Errorf("%w: kind cannot exceed 64 characters", ErrInvalidKind)
	}
	return nil
}

func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}
