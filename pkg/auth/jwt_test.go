package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/auth"
)

const testSecret = "unit-test-secret"

func TestOwnerTokenRoundTrip(t *testing.T) {
	token, err := auth.NewOwnerToken(42, "owner@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewOwnerToken: %v", err)
	}

	claims, err := auth.Parse(token, testSecret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Sub != 42 {
		t.Errorf("Sub = %d, want 42", claims.Sub)
	}
	if claims.Role != "owner" {
		t.Errorf("Role = %q, want owner", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewOwnerToken(42, "owner@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewOwnerToken: %v", err)
	}

	if _, err := auth.Parse(token, "a-different-secret"); err == nil {
		t.Fatal("Parse accepted a token signed with another secret")
	}
}

func TestParseRejectsUnsignedToken(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  int64(42),
		"role": "owner",
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := auth.Parse(token, testSecret); err == nil {
		t.Fatal("Parse accepted an alg=none token")
	}
}
