package models

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Wire records carry both the API's snake_case fields and the camelCase
// aliases older clients persisted. The helpers below resolve one canonical
// value: snake_case when present, else camelCase, else the zero value.

func pick[T any](snake, camel *T) T {
	if snake != nil {
		return *snake
	}
	if camel != nil {
		return *camel
	}
	var zero T
	return zero
}

func ptr[T any](v T) *T { return &v }

// optional returns nil for the zero value so the alias is omitted on encode.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	return ptr(t.UTC().Format(time.RFC3339Nano))
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the struct tags of a canonical entity or request schema.
func Validate(v any) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate.Struct(v)
}
