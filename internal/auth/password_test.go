package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("Abcd1234")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !VerifyPassword("Abcd1234", digest) {
		t.Error("expected verify to succeed for the original password")
	}
	if VerifyPassword("Abcd1235", digest) {
		t.Error("expected verify to fail for a different password")
	}
	if VerifyPassword("", digest) {
		t.Error("expected verify to fail for the empty password")
	}
}

func TestHashPasswordFreshSalt(t *testing.T) {
	d1, err := HashPassword("Abcd1234")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	d2, err := HashPassword("Abcd1234")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	// Fresh salts mean the digests differ; round-trip is the invariant.
	if d1 == d2 {
		t.Error("expected two digests of the same password to differ")
	}
	if !VerifyPassword("Abcd1234", d1) || !VerifyPassword("Abcd1234", d2) {
		t.Error("expected both digests to verify")
	}
}

func TestHashPasswordEncoding(t *testing.T) {
	digest, err := HashPassword("Abcd1234")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	salt, key, ok := strings.Cut(digest, ":")
	if !ok {
		t.Fatalf("digest %q missing separator", digest)
	}
	if len(salt) != saltLength*2 {
		t.Errorf("salt hex length: got %d, want %d", len(salt), saltLength*2)
	}
	if len(key) != keyLength*2 {
		t.Errorf("key hex length: got %d, want %d", len(key), keyLength*2)
	}
}

func TestVerifyPasswordLegacyAndMalformed(t *testing.T) {
	digests := []struct {
		name   string
		digest string
	}{
		{"legacy bcrypt 2a", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"},
		{"legacy bcrypt 2b", "$2b$12$abcdefghijklmnopqrstuv"},
		{"empty", ""},
		{"no separator", "deadbeef"},
		{"empty salt", ":deadbeef"},
		{"empty key", "deadbeef:"},
		{"non-hex salt", "zzzz:deadbeef"},
		{"non-hex key", "deadbeef:zzzz"},
	}

	for _, tt := range digests {
		t.Run(tt.name, func(t *testing.T) {
			// Must return false, never panic or error.
			if VerifyPassword("Abcd1234", tt.digest) {
				t.Errorf("expected verify to fail for digest %q", tt.digest)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid mixed", "Abcd1234", true},
		{"valid long", "CorrectHorse7Battery", true},
		{"too short", "Ab1", false},
		{"exactly seven", "Abcde12", false},
		{"no uppercase", "abcd1234", false},
		{"no lowercase", "ABCD1234", false},
		{"no digit", "Abcdefgh", false},
		{"empty", "", false},
		{"digits only", "12345678", false},
		{"valid with symbols", "Abcd1234!@#", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ValidatePassword(tt.password)
			if ok != tt.valid {
				t.Errorf("ValidatePassword(%q) = %v (%s), want %v", tt.password, ok, reason, tt.valid)
			}
			if !ok && reason == "" {
				t.Error("expected a reason for an invalid password")
			}
			if ok && reason != "" {
				t.Errorf("expected empty reason for a valid password, got %q", reason)
			}
		})
	}
}
