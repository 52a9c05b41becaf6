package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService() *PasswordService {
	return NewPasswordServiceWithCost(bcrypt.MinCost)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_LooksLikeBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.MinCost)
	}
}

func TestHash_SaltIsRandom(t *testing.T) {
	ps := newTestPasswordService()

	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestHash_Length(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Hash() should accept a 72-byte password, got %v", err)
	}
	if _, err := ps.Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Hash() error = %v, want ErrPasswordTooLong", err)
	}
}

func TestNewPasswordService_DefaultCost(t *testing.T) {
	if got := NewPasswordService().cost; got != defaultCost {
		t.Errorf("cost = %d, want %d", got, defaultCost)
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()
	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name      string
		hash      string
		plaintext string
		wantErr   error
	}{
		{"correct", hash, "password123", nil},
		{"wrong", hash, "password124", ErrPasswordMismatch},
		{"empty", hash, "", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ps.Verify(tt.hash, tt.plaintext)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-valid-bcrypt-hash", "password")
	if err == nil {
		t.Fatal("Verify() should return an error for a garbage hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("garbage hash should not be reported as a plain mismatch")
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	for _, pw := range []string{"hello123", "p@$$w0rd!#%", "пароль-密码", "  padded  "} {
		t.Run(pw, func(t *testing.T) {
			hash, err := ps.Hash(pw)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", pw, err)
			}
			if err := ps.Verify(hash, pw); err != nil {
				t.Errorf("Verify() failed for %q: %v", pw, err)
			}
		})
	}
}
