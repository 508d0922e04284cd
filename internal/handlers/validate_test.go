package handlers

import (
	"strings"
	"testing"
)

func TestValidRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"qzvkrwxhnbtpadlcyefm", true},
		{"short", false},
		{"QZVKRWXHNBTPADLCYEFM", false},
		{"qzvkrwxhnbtpadlcyef1", false},
		{"qzvkrwxhnbtpadlcyefmx", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := validRef(tt.ref); got != tt.want {
			t.Errorf("validRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestValidateAccessKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantError bool
	}{
		{"valid", "dev-access-key", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("k", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateAccessKey(tt.key)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	if validateIdentifier("qzvkrwxhnbtpadlcyefm") != "" {
		t.Error("valid identifier rejected")
	}
	if validateIdentifier(" ") == "" {
		t.Error("blank identifier accepted")
	}
	if validateIdentifier(strings.Repeat("a", 201)) == "" {
		t.Error("overlong identifier accepted")
	}
}

func TestGuideLabel(t *testing.T) {
	tests := map[string]string{
		"":                  "Overview",
		"local-development": "Local development",
		"testing/pgtap":     "Pgtap",
	}
	for slug, want := range tests {
		if got := guideLabel(slug); got != want {
			t.Errorf("guideLabel(%q) = %q, want %q", slug, got, want)
		}
	}
}
