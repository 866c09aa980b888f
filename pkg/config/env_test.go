package config

import (
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := GetEnvString("TEST_STRING", "default"); got != "value" {
		t.Errorf("GetEnvString() = %q, want %q", got, "value")
	}
	if got := GetEnvString("TEST_STRING_UNSET", "default"); got != "default" {
		t.Errorf("GetEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid", "42", 42},
		{"negative", "-3", -3},
		{"invalid falls back", "forty", 7},
		{"trailing garbage falls back", "12abc", 7},
		{"empty falls back", "", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if got := GetEnvInt("TEST_INT", 7); got != tt.want {
				t.Errorf("GetEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"F", false},
		{"yes", true}, // invalid, default
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := GetEnvBool("TEST_BOOL", true); got != tt.want {
				t.Errorf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := GetEnvDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvDuration() = %v, want 90s", got)
	}

	t.Setenv("TEST_DURATION", "soon")
	if got := GetEnvDuration("TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration() = %v, want default 1s", got)
	}
}
