package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pgs-software-club/club-service/internal/config"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminEmail:    "admin@example.com",
		AdminPassword: "hunter2",
		JWTSecret:     "test-secret",
		JWTIssuer:     "club-service",
		TokenTTL:      time.Hour,
	}
}

func TestValidateAdmin(t *testing.T) {
	svc := NewTokenService(testConfig())

	if err := svc.ValidateAdmin("admin@example.com", "hunter2"); err != nil {
		t.Fatalf("expected valid credentials, got %v", err)
	}
	if err := svc.ValidateAdmin("admin@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ValidateAdmin("other@example.com", "hunter2"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService(testConfig())

	token, err := svc.Issue("admin@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("expected email admin@example.com, got %q", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService(testConfig())

	otherCfg := testConfig()
	otherCfg.JWTSecret = "different-secret"
	other := NewTokenService(otherCfg)

	token, err := other.Issue("admin@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	svc := NewTokenService(testConfig())

	otherCfg := testConfig()
	otherCfg.JWTIssuer = "someone-else"
	other := NewTokenService(otherCfg)

	token, err := other.Issue("admin@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testConfig()
	svc := NewTokenService(cfg)

	claims := Claims{
		Email: cfg.AdminEmail,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cfg.AdminEmail,
			Issuer:    cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	cfg := testConfig()
	svc := NewTokenService(cfg)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email: cfg.AdminEmail,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
