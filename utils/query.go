package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseIntDefault parses a non-negative integer query value, falling back to
// def on absence or garbage.
func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}

// ParseUintPtr parses an optional id query value; empty or invalid -> nil.
func ParseUintPtr(s string) *uint {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

// ParseDatePtr parses an optional YYYY-MM-DD query value; empty or invalid -> nil.
func ParseDatePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}
