package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"", RoleUser, false},
		{"User", RoleUser, false},
		{"Admin", RoleAdmin, false},
		{"admin", "", true},
		{"Root", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Errorf("ParseRole(%q): expected ErrInvalidRole, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	valid := []string{"0", "19.9", "19.90", "1234567890123456.99"}
	for _, s := range valid {
		if err := ValidateAmount(decimal.RequireFromString(s)); err != nil {
			t.Errorf("%s should be valid: %v", s, err)
		}
	}

	invalid := []string{"-0.01", "1.001", "10000000000000000"}
	for _, s := range invalid {
		if err := ValidateAmount(decimal.RequireFromString(s)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s should be invalid, got %v", s, err)
		}
	}
}
