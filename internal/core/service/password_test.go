package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/manaable/leave-api/internal/core/domain"
)

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := fastHasher()

	encoded, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding: %s", encoded)
	}

	ok, err := h.Verify(encoded, "correct horse")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = h.Verify(encoded, "wrong horse")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestArgon2Hasher_SaltsDiffer(t *testing.T) {
	h := fastHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestArgon2Hasher_VerifyUsesEncodedParameters(t *testing.T) {
	old := &Argon2Hasher{Time: 2, Memory: 2048, Threads: 1, KeyLen: 24, SaltLen: 8}
	encoded, _ := old.Hash("pw")

	ok, err := fastHasher().Verify(encoded, "pw")
	if err != nil || !ok {
		t.Fatalf("hash made with other parameters should verify: ok=%v err=%v", ok, err)
	}
}

func TestArgon2Hasher_VerifyBcrypt(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)

	ok, err := fastHasher().Verify(string(hash), "pw")
	if err != nil || !ok {
		t.Fatalf("expected bcrypt match: ok=%v err=%v", ok, err)
	}
	ok, err = fastHasher().Verify(string(hash), "other")
	if err != nil || ok {
		t.Fatalf("expected bcrypt mismatch without error: ok=%v err=%v", ok, err)
	}
}

func TestArgon2Hasher_VerifyRejectsUnknownFormats(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$garbage",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
	} {
		if _, err := fastHasher().Verify(encoded, "pw"); !errors.Is(err, errUnknownHashFormat) {
			t.Errorf("Verify(%q): expected errUnknownHashFormat, got %v", encoded, err)
		}
	}
}

func TestArgon2Hasher_VerifyRejectsUnsafeParameters(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty key", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHQ$"},
		{"zero iterations", "$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$a2V5a2V5a2V5a2V5"},
		{"zero parallelism", "$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$a2V5a2V5a2V5a2V5"},
		{"memory too large", "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdA$a2V5a2V5a2V5a2V5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := fastHasher().Verify(tc.encoded, "anything")
			if ok || !errors.Is(err, errUnknownHashFormat) {
				t.Fatalf("expected errUnknownHashFormat, got ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestAuthService_Login_CorruptHashIsAnError(t *testing.T) {
	svc, repo := newTestAuthService(t)
	_, err := repo.Create(context.Background(), &domain.User{
		Email:        "broken@manaable.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHQ$",
		Role:         domain.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, _, err = svc.Login(context.Background(), "broken@manaable.com", "anything")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected a hash format error, got %v", err)
	}
}
