package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"valid with plus", "user+tag@example.co.uk", false},
		{"empty", "", true},
		{"missing at", "userexample.com", true},
		{"missing domain", "user@", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "chai_aur_code", false},
		{"valid with dash", "some-user42", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 51), true},
		{"spaces", "bad user", true},
		{"special chars", "user!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("expected error for empty password")
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword(strings.Repeat("p", 129)); err == nil {
		t.Error("expected error for oversized password")
	}
}

func TestValidateObjectID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid lowercase", "64db1f9e2c4b8a1d3e5f7a90", false},
		{"valid uppercase", "64DB1F9E2C4B8A1D3E5F7A90", false},
		{"empty", "", true},
		{"too short", "64db1f9e", true},
		{"too long", "64db1f9e2c4b8a1d3e5f7a9000", true},
		{"non hex", "zzdb1f9e2c4b8a1d3e5f7a90", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectID(tt.id, "video ID")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateObjectID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSortType(t *testing.T) {
	if err := ValidateSortType("asc"); err != nil {
		t.Errorf("unexpected error for asc: %v", err)
	}
	if err := ValidateSortType("desc"); err != nil {
		t.Errorf("unexpected error for desc: %v", err)
	}
	if err := ValidateSortType("sideways"); err == nil {
		t.Error("expected error for invalid sort type")
	}
}

func TestValidateStringLength(t *testing.T) {
	if err := ValidateStringLength("abc", 1, 10, "title"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateStringLength("", 1, 10, "title"); err == nil {
		t.Error("expected error for too-short string")
	}
	if err := ValidateStringLength(strings.Repeat("x", 11), 1, 10, "title"); err == nil {
		t.Error("expected error for too-long string")
	}
}
