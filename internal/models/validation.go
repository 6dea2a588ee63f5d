package models

import (
	"fmt"
	"time"

	"restaurant-system/internal/apperror"
)

// ValidationError reports the first invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) ErrorKind() apperror.Kind {
	return apperror.KindBadRequest
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

func validateRequired(field, value string, max int) error {
	if value == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return validateMaxLen(field, value, max)
}

func validateMaxLen(field, value string, max int) error {
	if max > 0 && len([]rune(value)) > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

// normalizeDate validates a YYYY-MM-DD date and returns it unchanged.
func normalizeDate(field, value string) (string, error) {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return "", ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return value, nil
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeTime(field, value string) (string, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", ValidationError{Field: field, Message: "must be a time in HH:MM or HH:MM:SS format"}
}

// optionalText turns an empty supplied string into a cleared (nil) column.
func optionalText(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}
