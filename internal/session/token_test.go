package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/session"
)

const testSecret = "session-test-secret-at-least-32-chars"

func TestIssueAndValidate(t *testing.T) {
	svc := session.NewService([]byte(testSecret), time.Hour)

	raw, err := svc.Issue("alice@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !svc.Validate(raw) {
		t.Fatal("freshly issued token is not valid")
	}

	claims, err := svc.ExtractClaims(raw)
	if err != nil {
		t.Fatalf("extract claims: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", claims.Email)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("role = %q, want user", claims.Role)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("expiry is not after issue time")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := session.NewService([]byte(testSecret), -time.Minute)

	raw, err := svc.Issue("bob@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if svc.Validate(raw) {
		t.Error("expired token validated")
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	svc := session.NewService([]byte(testSecret), time.Hour)

	raw, err := svc.Issue("carol@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip one byte in the signature segment.
	i := strings.LastIndex(raw, ".") + 1
	b := []byte(raw)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}

	if svc.Validate(string(b)) {
		t.Error("token with flipped signature byte validated")
	}
}

func TestValidate_WrongKey(t *testing.T) {
	svc := session.NewService([]byte(testSecret), time.Hour)
	other := session.NewService([]byte("another-secret-that-is-32-chars!!"), time.Hour)

	raw, err := svc.Issue("dave@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if other.Validate(raw) {
		t.Error("token validated under a different key")
	}
}

func TestValidate_Garbage(t *testing.T) {
	svc := session.NewService([]byte(testSecret), time.Hour)
	if svc.Validate("not.a.jwt") {
		t.Error("garbage token validated")
	}
}
