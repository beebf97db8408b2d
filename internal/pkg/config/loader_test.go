package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "custom_value")
	assert.Equal(t, "custom_value", LoadEnvString("TEST_STRING", "default_value"))

	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "default_value", LoadEnvString("TEST_STRING", "default_value"))

	assert.Equal(t, "default_value", LoadEnvString("TEST_STRING_UNSET", "default_value"))
}

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		validator    func(string) error
		want         string
		wantFallback bool
	}{
		{name: "valid value", value: "0 6 * * *", validator: ValidateCronSchedule, want: "0 6 * * *"},
		{name: "unset uses default silently", value: "", validator: ValidateCronSchedule, want: "0 7 * * *"},
		{name: "invalid falls back", value: "every morning", validator: ValidateCronSchedule, want: "0 7 * * *", wantFallback: true},
		{name: "nil validator accepts anything", value: "anything", validator: nil, want: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CRON", tt.value)

			result := LoadEnvWithFallback("TEST_CRON", "0 7 * * *", tt.validator)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "Invalid TEST_CRON='every morning'")
				assert.Contains(t, result.Warnings[0], "falling back to default '0 7 * * *'")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         time.Duration
		wantFallback bool
	}{
		{name: "valid", value: "45s", want: 45 * time.Second},
		{name: "compound", value: "1h30m", want: 90 * time.Minute},
		{name: "unset", value: "", want: 20 * time.Second},
		{name: "unparseable", value: "soon", want: 20 * time.Second, wantFallback: true},
		{name: "negative rejected by validator", value: "-5s", want: 20 * time.Second, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TIMEOUT", tt.value)

			result := LoadEnvDuration("TEST_TIMEOUT", 20*time.Second, ValidatePositiveDuration)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			assert.Equal(t, tt.wantFallback, len(result.Warnings) == 1)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 365) }

	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
	}{
		{name: "valid", value: "30", want: 30},
		{name: "surrounding whitespace", value: " 60 ", want: 60},
		{name: "unset", value: "", want: 90},
		{name: "not a number", value: "ninety", want: 90, wantFallback: true},
		{name: "trailing garbage", value: "30days", want: 90, wantFallback: true},
		{name: "out of range", value: "0", want: 90, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DAYS", tt.value)

			result := LoadEnvInt("TEST_DAYS", 90, inRange)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		want         bool
		wantFallback bool
	}{
		{value: "true", want: true},
		{value: "TRUE", want: true},
		{value: "1", want: true},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "", want: false},
		{value: "yes", want: false, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)

			result := LoadEnvBool("TEST_BOOL", false)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvList(t *testing.T) {
	defaults := []string{"sweden", "nordic"}

	t.Setenv("TEST_LIST", " stockholm , ,göteborg,malmö ")
	result := LoadEnvList("TEST_LIST", defaults)
	assert.Equal(t, []string{"stockholm", "göteborg", "malmö"}, result.Value)
	assert.False(t, result.FallbackApplied)

	t.Setenv("TEST_LIST", " , ")
	result = LoadEnvList("TEST_LIST", defaults)
	assert.Equal(t, defaults, result.Value)
	assert.True(t, result.FallbackApplied)

	t.Setenv("TEST_LIST", "")
	result = LoadEnvList("TEST_LIST", defaults)
	assert.Equal(t, defaults, result.Value)
	assert.False(t, result.FallbackApplied)
}
