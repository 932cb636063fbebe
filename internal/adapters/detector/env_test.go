package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/buckle/internal/adapters/detector"
)

func TestDetectEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
	}{
		{name: "CI=true forces json", ciValue: "true"},
		{name: "CI=1 forces json", ciValue: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)
			assert.Equal(t, detector.FormatJSON, detector.DetectEnvironment())
		})
	}

	t.Run("result is never auto", func(t *testing.T) {
		t.Setenv("CI", "false")
		assert.NotEqual(t, detector.FormatAuto, detector.DetectEnvironment())
	})
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.LogFormat
		userFlag     string
		expected     detector.LogFormat
	}{
		{
			name:         "auto respects auto-detection (pretty)",
			autoDetected: detector.FormatPretty,
			userFlag:     "auto",
			expected:     detector.FormatPretty,
		},
		{
			name:         "auto respects auto-detection (json)",
			autoDetected: detector.FormatJSON,
			userFlag:     "auto",
			expected:     detector.FormatJSON,
		},
		{
			name:         "empty flag respects auto-detection",
			autoDetected: detector.FormatPretty,
			userFlag:     "",
			expected:     detector.FormatPretty,
		},
		{
			name:         "pretty overrides auto-detection",
			autoDetected: detector.FormatJSON,
			userFlag:     "pretty",
			expected:     detector.FormatPretty,
		},
		{
			name:         "json overrides auto-detection",
			autoDetected: detector.FormatPretty,
			userFlag:     "json",
			expected:     detector.FormatJSON,
		},
		{
			name:         "invalid flag respects auto-detection",
			autoDetected: detector.FormatJSON,
			userFlag:     "invalid",
			expected:     detector.FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveFormat(tt.autoDetected, tt.userFlag))
		})
	}
}

func TestLogFormat_String(t *testing.T) {
	assert.Equal(t, "auto", detector.FormatAuto.String())
	assert.Equal(t, "pretty", detector.FormatPretty.String())
	assert.Equal(t, "json", detector.FormatJSON.String())
}
