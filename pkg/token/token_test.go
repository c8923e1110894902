package token_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edupress/lms-backend/pkg/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testIdentity() token.Identity {
	return token.Identity{
		ID:    uuid.New(),
		Email: "a@x.com",
		Role:  "student",
	}
}

func TestIssueAndParse(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute)
	id := testIdentity()

	raw, expiresAt, err := svc.Issue(id)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Fatalf("expiry %d is not in the future", expiresAt)
	}

	claims, err := svc.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != id.ID.String() {
		t.Fatalf("subject = %q, want %q", claims.Subject, id.ID.String())
	}
	if claims.Email != id.Email || claims.Role != id.Role {
		t.Fatalf("claims = %+v, want email/role from identity", claims)
	}
}

func TestParseExpired(t *testing.T) {
	svc := token.NewService("test-secret", -time.Second)

	raw, _, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Parse(raw); !errors.Is(err, token.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseAcceptsUnexpired(t *testing.T) {
	// A generous TTL stands in for the T-epsilon boundary; the expired case
	// above covers T+epsilon.
	svc := token.NewService("test-secret", time.Hour)

	raw, _, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.Parse(raw); err != nil {
		t.Fatalf("parse rejected an unexpired token: %v", err)
	}
}

func TestParseForeignSecret(t *testing.T) {
	issuer := token.NewService("secret-one", time.Minute)
	verifier := token.NewService("secret-two", time.Minute)

	raw, _, err := issuer.Issue(testIdentity())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Parse(raw); !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseTamperedPayload(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute)

	raw, _, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", raw)
	}

	// Swap a claim in the payload and re-encode it as valid JSON so the
	// rejection comes from the signature check, not payload parsing.
	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(decoded, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	payload["role"] = "admin"
	reencoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(reencoded) + "." + parts[2]

	if _, err := svc.Parse(tampered); !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute)

	if _, err := svc.Parse("not-a-token"); !errors.Is(err, token.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseMissingSubject(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute)

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := svc.Parse(raw); !errors.Is(err, token.ErrNoSubject) {
		t.Fatalf("expected ErrNoSubject, got %v", err)
	}
}
