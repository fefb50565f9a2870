package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords. Implementations must encode
// their parameters into the hash so the algorithm can change without a
// migration.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. A mismatch is
	// (false, nil); an error means encoded could not be interpreted.
	Verify(encoded, password string) (bool, error)
}

var errUnknownHashFormat = errors.New("unknown password hash format")

// Upper bound on the memory cost accepted from a stored hash (KiB).
const maxArgon2Memory = 1 << 20

// Argon2Hasher produces argon2id hashes in the PHC string format and still
// verifies legacy bcrypt hashes.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// NewArgon2Hasher returns a hasher with the RFC 9106 second recommended
// parameter set scaled to 64 MiB.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 2,
		KeyLen:  32,
		SaltLen: 16,
	}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	encoded, err := argon2id.CreateHash(password, &argon2id.Params{
		Memory:      h.Memory,
		Iterations:  h.Time,
		Parallelism: h.Threads,
		SaltLength:  h.SaltLen,
		KeyLength:   h.KeyLen,
	})
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return encoded, nil
}

func (h *Argon2Hasher) Verify(encoded, password string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon2id(encoded, password)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, errUnknownHashFormat
	}
}

// verifyArgon2id rejects parameters argon2.IDKey would panic on, or that
// would let a tampered record burn unbounded memory, before comparing.
func verifyArgon2id(encoded, password string) (bool, error) {
	params, _, key, err := argon2id.DecodeHash(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", errUnknownHashFormat, err)
	}
	switch {
	case len(key) == 0:
		return false, fmt.Errorf("%w: empty key", errUnknownHashFormat)
	case params.Iterations < 1:
		return false, fmt.Errorf("%w: t must be at least 1", errUnknownHashFormat)
	case params.Parallelism < 1:
		return false, fmt.Errorf("%w: p must be at least 1", errUnknownHashFormat)
	case params.Memory > maxArgon2Memory:
		return false, fmt.Errorf("%w: m exceeds %d KiB", errUnknownHashFormat, maxArgon2Memory)
	}
	return argon2id.ComparePasswordAndHash(password, encoded)
}
