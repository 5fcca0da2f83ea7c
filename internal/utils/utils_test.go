package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewToken("secret", "u1", "u@x.com", "recruiter", 7)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	c, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if c.ID != "u1" || c.Email != "u@x.com" || c.Role != "recruiter" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _ := NewToken("secret", "u1", "u@x.com", "admin", 7)
	if _, err := ParseToken("other", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenExpired(t *testing.T) {
	token, _ := NewToken("secret", "u1", "u@x.com", "client", -1)
	if _, err := ParseToken("secret", token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestTokenRejectsUnsignedMethod(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": "u1", "role": "admin",
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseToken("secret", raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := GeneratePassword()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(p) != 12 {
			t.Fatalf("len = %d, want 12", len(p))
		}
		for _, r := range p {
			if !strings.ContainsRune(passwordCharset, r) {
				t.Fatalf("character %q outside charset", r)
			}
		}
		seen[p] = true
	}
	if len(seen) < 2 {
		t.Fatal("generator returned the same password every time")
	}
}
