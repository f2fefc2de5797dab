package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Compiled regular expressions for validation
var (
	// Detect potentially dangerous characters - focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	maxStationNameLength = 100
	maxCityLength        = 60
)

// ValidateStationName validates a free text station name before it is sent to the provider
func ValidateStationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("station name cannot be empty")
	}

	if utf8.RuneCountInString(name) > maxStationNameLength {
		return errors.New("station name too long (max 100 characters)")
	}

	if dangerousPattern.MatchString(name) {
		return errors.New("station name contains invalid characters")
	}

	return nil
}

// ValidateCity validates an optional city hint
func ValidateCity(city string) error {
	// Empty cities are allowed
	if city == "" {
		return nil
	}

	if utf8.RuneCountInString(city) > maxCityLength {
		return errors.New("city too long (max 60 characters)")
	}

	if dangerousPattern.MatchString(city) {
		return errors.New("city contains invalid characters")
	}

	return nil
}

// ValidateMaxList validates the requested number of departures
func ValidateMaxList(n int) error {
	if n < 0 {
		return errors.New("maxList must be non-negative")
	}
	if n > 100 {
		return errors.New("maxList too large (max 100)")
	}
	return nil
}

// ValidateMaxTimeOffset validates the departure window in minutes
func ValidateMaxTimeOffset(minutes int) error {
	if minutes < 0 {
		return errors.New("maxTimeOffset must be non-negative")
	}
	if minutes > 1440 {
		return errors.New("maxTimeOffset too large (max 1440 minutes)")
	}
	return nil
}

// SanitizeInput removes HTML tags and surrounding whitespace
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateAndSanitizeStationName validates and sanitizes a station name
func ValidateAndSanitizeStationName(name string) (string, error) {
	if err := ValidateStationName(name); err != nil {
		return "", err
	}

	return SanitizeInput(name), nil
}
