package security

import "testing"

func TestCSRFGenerateAndValidate(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	if !gen.ValidateToken("session-123", token) {
		t.Error("ValidateToken() rejected a valid token")
	}
	if gen.ValidateToken("session-456", token) {
		t.Error("ValidateToken() accepted a token for a different session")
	}
	if gen.ValidateToken("session-123", "tampered") {
		t.Error("ValidateToken() accepted a tampered token")
	}
	if gen.ValidateToken("", token) {
		t.Error("ValidateToken() accepted an empty session ID")
	}
}

func TestCSRFTokenIsDeterministic(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	first, err := gen.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	second, err := gen.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if first != second {
		t.Error("expected identical tokens for the same session ID")
	}
}

func TestCSRFDifferentSecrets(t *testing.T) {
	genA := NewCSRFGenerator("secret-a")
	genB := NewCSRFGenerator("secret-b")

	token, err := genA.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if genB.ValidateToken("session-123", token) {
		t.Error("token generated with one secret validated with another")
	}
}
