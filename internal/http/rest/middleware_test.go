package rest

import (
	"testing"
	"time"

	"github.com/ekermen/crowdcheck/config"
	"github.com/golang-jwt/jwt"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// A validly-signed token with a missing or non-numeric exp claim must be
// rejected, not crash the handler.
func TestVerifyTokenRejectsMalformedExpiry(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "access-secret"}}

	testCases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"MissingExpiry", jwt.MapClaims{"sub": "user-1", "typ": "access"}},
		{"StringExpiry", jwt.MapClaims{"sub": "user-1", "typ": "access", "exp": "soon"}},
		{"BoolExpiry", jwt.MapClaims{"sub": "user-1", "typ": "access", "exp": true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signed := signedToken(t, "access-secret", tc.claims)
			if _, err := api.verifyToken(signed, false); err == nil {
				t.Fatal("expected error for token without a numeric expiry")
			}
		})
	}
}

func TestVerifyTokenAcceptsWellFormedToken(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "access-secret"}}

	signed := signedToken(t, "access-secret", jwt.MapClaims{
		"sub": "user-1",
		"typ": "access",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := api.verifyToken(signed, false)
	if err != nil {
		t.Fatalf("verifyToken returned error %v", err)
	}
	if claims.UserID != "user-1" || claims.Type != "access" {
		t.Errorf("claims = %+v; want user-1/access", claims)
	}
}
