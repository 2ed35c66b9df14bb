package utils

import "testing"

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00control", "withcontrol"},
		{"keeps\ttabs", "keeps\ttabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := NormalizeUsername(" ChaiAurCode "); got != "chaiaurcode" {
		t.Errorf("NormalizeUsername = %q", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("   ") {
		t.Error("IsEmpty should be true for whitespace")
	}
	if IsEmpty("x") {
		t.Error("IsEmpty should be false for non-empty")
	}
}
