package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStationName(t *testing.T) {
	tests := []struct {
		name    string
		station string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "simple name",
			station: "Hauptbahnhof",
		},
		{
			name:    "name with umlaut and spaces",
			station: "Mönckebergstraße Nord",
		},
		{
			name:    "name with punctuation",
			station: "St. Pauli (U)",
		},
		{
			name:    "empty name",
			station: "",
			wantErr: true,
			errMsg:  "station name cannot be empty",
		},
		{
			name:    "whitespace only",
			station: "   ",
			wantErr: true,
			errMsg:  "station name cannot be empty",
		},
		{
			name:    "name too long",
			station: strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "station name too long (max 100 characters)",
		},
		{
			name:    "multibyte name at the limit",
			station: strings.Repeat("ö", 100),
		},
		{
			name:    "script tags",
			station: "<script>alert('xss')</script>",
			wantErr: true,
			errMsg:  "station name contains invalid characters",
		},
		{
			name:    "SQL comment injection",
			station: "'; DROP TABLE stations; --",
			wantErr: true,
			errMsg:  "station name contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStationName(tt.station)
			if tt.wantErr {
				assert.Error(t, err, "ValidateStationName should return error for invalid name")
				assert.Contains(t, err.Error(), tt.errMsg, "Error message should contain expected text")
			} else {
				assert.NoError(t, err, "ValidateStationName should not return error for valid name")
			}
		})
	}
}

func TestValidateCity(t *testing.T) {
	assert.NoError(t, ValidateCity(""))
	assert.NoError(t, ValidateCity("Hamburg"))
	assert.EqualError(t, ValidateCity(strings.Repeat("x", 61)), "city too long (max 60 characters)")
	assert.EqualError(t, ValidateCity("<b>Hamburg</b>"), "city contains invalid characters")
}

func TestValidateLimits(t *testing.T) {
	assert.NoError(t, ValidateMaxList(0))
	assert.NoError(t, ValidateMaxList(100))
	assert.Error(t, ValidateMaxList(-1))
	assert.Error(t, ValidateMaxList(101))

	assert.NoError(t, ValidateMaxTimeOffset(0))
	assert.NoError(t, ValidateMaxTimeOffset(1440))
	assert.Error(t, ValidateMaxTimeOffset(-5))
	assert.Error(t, ValidateMaxTimeOffset(1441))
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Dammtor  ", "Dammtor"},
		{"<b>Dammtor</b>", "Dammtor"},
		{"Berliner Tor", "Berliner Tor"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeInput(tt.input))
	}
}

func TestValidateAndSanitizeStationName(t *testing.T) {
	got, err := ValidateAndSanitizeStationName("  Landungsbrücken ")
	assert.NoError(t, err)
	assert.Equal(t, "Landungsbrücken", got)

	_, err = ValidateAndSanitizeStationName("")
	assert.Error(t, err)
}
