package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "https://example.supabase.co/auth/v1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return token
}

func TestInspectTokenValid(t *testing.T) {
	now := time.Now()
	token := signToken(t, "user-42", now.Add(time.Hour))

	info, err := InspectToken(token, now)
	if err != nil {
		t.Fatalf("InspectToken() unexpected error: %v", err)
	}
	if info.Subject != "user-42" {
		t.Errorf("Subject = %q, want user-42", info.Subject)
	}
}

func TestInspectTokenMalformed(t *testing.T) {
	for _, token := range []string{"", "not-a-valid-token", "a.b.c"} {
		if _, err := InspectToken(token, time.Now()); err != ErrMalformedToken {
			t.Errorf("InspectToken(%q) error = %v, want ErrMalformedToken", token, err)
		}
	}
}

func TestInspectTokenExpired(t *testing.T) {
	now := time.Now()
	token := signToken(t, "user-42", now.Add(-time.Minute))

	if _, err := InspectToken(token, now); err != ErrTokenExpired {
		t.Errorf("InspectToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("token-a")
	if len(a) != 12 {
		t.Errorf("Fingerprint() length = %d, want 12", len(a))
	}
	if a != Fingerprint("token-a") {
		t.Error("Fingerprint() is not deterministic")
	}
	if a == Fingerprint("token-b") {
		t.Error("Fingerprint() collided for different tokens")
	}
}
