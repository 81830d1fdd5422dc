package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestService() *JWTService {
	return NewJWTService(SessionConfig{SecretKey: "test-secret", TTL: time.Hour, TokenIssuer: "internlink"})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService()

	issued, err := svc.Issue(SessionIdentity{UserID: 7, Username: "stuLiam", Role: "student"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatal("token id is empty")
	}

	claims, err := svc.ValidateToken(issued.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "stuLiam" || claims.Role != "student" || claims.ID != issued.TokenID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsForeignAndExpiredTokens(t *testing.T) {
	svc := newTestService()
	other := NewJWTService(SessionConfig{SecretKey: "other-secret", TTL: time.Hour, TokenIssuer: "internlink"})

	foreign, err := other.Issue(SessionIdentity{UserID: 1, Username: "x", Role: "admin"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.ValidateToken(foreign.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token: got %v, want ErrInvalidToken", err)
	}

	issued, err := svc.Issue(SessionIdentity{UserID: 1, Username: "x", Role: "admin"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ValidateToken(issued.Token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expired token: got %v, want ErrExpiredToken", err)
	}

	if _, err := svc.ValidateToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("empty token: got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"abc.def.ghi", "", true},
		{"Bearer ", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("LiamP@ss1H!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "LiamP@ss1H!" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Check(hash, "LiamP@ss1H!") {
		t.Fatal("correct password rejected")
	}
	if h.Check(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}

	again, _ := h.Hash("LiamP@ss1H!")
	if again == hash {
		t.Fatal("hashes are not salted")
	}
}
