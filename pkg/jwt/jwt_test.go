package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Minute, "")
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "owner@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Issuer != "caption-relay" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("a", time.Minute, "").GenerateAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewManager("b", time.Minute, "").ValidateAccessToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute, "")
	token, err := m.GenerateAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.ValidateAccessToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Minute, "").ValidateAccessToken("not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
