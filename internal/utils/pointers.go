package utils

import (
	"strings"
	"time"
)

func StringPtr(s string) *string {
	return &s
}

// NonEmptyPtr trims s and returns nil when nothing is left.
func NonEmptyPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
