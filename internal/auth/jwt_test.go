package auth

import (
	"testing"
	"time"
)

func TestClaimsRoundTrip(t *testing.T) {
	token, err := Sign("secret", time.Minute, Claims{UserID: "user-1", Role: "admin", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	claims, err := ParseClaims(token, "secret", "")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Expired(time.Now()) {
		t.Fatalf("fresh token should not be expired")
	}
	if !claims.Expired(time.Now().Add(2 * time.Minute)) {
		t.Fatalf("token should be expired after ttl")
	}
}

func TestParseClaimsUnverified(t *testing.T) {
	token, err := Sign("backend-only-secret", time.Minute, Claims{UserID: "user-2", Role: "team_member"})
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	claims, err := ParseClaims(token, "", "")
	if err != nil {
		t.Fatalf("unverified parse error: %v", err)
	}
	if claims.Role != "team_member" {
		t.Fatalf("expected team_member, got %s", claims.Role)
	}

	if _, err := ParseClaims(token, "wrong-secret", ""); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
	if _, err := ParseClaims("", "", ""); err != ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
