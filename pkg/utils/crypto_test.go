package utils

import (
	"testing"
	"time"
)

const key = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt([]byte("the-access-token"), []byte(key))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == "the-access-token" {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, []byte(key))
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != "the-access-token" {
		t.Errorf("decrypted = %q", decrypted)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), []byte(key))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(encrypted, []byte("ffffffffffffffffffffffffffffffff")); err == nil {
		t.Fatal("expected an error with the wrong key")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(key, "42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(key, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "42" {
		t.Errorf("user id = %q, want 42", claims.UserID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(key, "42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateToken("another-secret-another-secret-32", token); err == nil {
		t.Fatal("expected an error with the wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateToken(key, "42", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateToken(key, token); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}
