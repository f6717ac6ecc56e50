package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		wantErr  string
	}{
		{"valid simple", "johndoe", ""},
		{"valid with digits", "user123", ""},
		{"valid with underscore", "john_doe", ""},
		{"valid with hyphen", "john-doe", ""},
		{"minimum length", "abc", ""},
		{"maximum length", strings.Repeat("a", 30), ""},
		{"too short", "ab", "at least 3 characters"},
		{"too long", strings.Repeat("a", 31), "must not exceed 30"},
		{"invalid characters", "john doe", "can only contain"},
		{"invalid symbol", "john@doe", "can only contain"},
		{"leading underscore", "_john", "cannot start or end"},
		{"trailing hyphen", "john-", "cannot start or end"},
		{"reserved admin", "admin", "reserved"},
		{"reserved mixed case", "Admin", "reserved"},
		{"reserved leaderboard", "leaderboard", "reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateUsername(tt.username)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"valid subdomain", "user@mail.example.co.uk", false},
		{"valid plus tag", "user+tag@example.com", false},
		{"missing at", "userexample.com", true},
		{"missing domain", "user@", true},
		{"missing tld", "user@example", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 250) + "@b.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Str0ng!Passw0rd", ""},
		{"minimum length", "Aa1!aaaaaaaa", ""},
		{"too short", "Aa1!short", "at least 12 characters"},
		{"too long", "Aa1!" + strings.Repeat("a", 125), "must not exceed 128"},
		{"no uppercase", "weak!passw0rd", "uppercase letter"},
		{"no lowercase", "WEAK!PASSW0RD", "lowercase letter"},
		{"no digit", "Weak!Password", "digit"},
		{"no special", "WeakPassw0rdd", "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
