package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// Iteration count for PBKDF2-SHA256. Deliberately high so that brute-forcing
// a stolen wrapped key against candidate master secrets stays expensive.
// Changing this value breaks unwrapping of previously wrapped keys.
const pbkdf2Iterations = 100_000

// KeyDerivationService implements KeyDeriver using PBKDF2-SHA256.
//
// Derivation is CPU-bound and intentionally slow (about 100k hash
// iterations), so the service bounds the number of concurrent derivations
// with a weighted semaphore sized to GOMAXPROCS. A burst of logins or file
// downloads queues on the semaphore instead of saturating every core and
// starving unrelated request handling.
type KeyDerivationService struct {
	iterations int
	sem        *semaphore.Weighted
}

// NewKeyDerivation creates a KeyDerivationService with the fixed production
// work factor.
func NewKeyDerivation() *KeyDerivationService {
	return &KeyDerivationService{
		iterations: pbkdf2Iterations,
		sem:        semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Derive produces a 256-bit key from masterSecret and salt via PBKDF2-SHA256.
//
// Deterministic: the same (secret, salt) pair always yields the same key,
// which is required to unwrap previously wrapped data keys. The salt must be
// at least 16 bytes and unique per derivation; the caller generates it.
//
// Returns:
//   - ErrInvalidKeySize if masterSecret is empty
//   - ErrInvalidSalt if salt is shorter than 16 bytes
//   - ctx.Err() if the context is cancelled while waiting for a derivation slot
func (k *KeyDerivationService) Derive(ctx context.Context, masterSecret, salt []byte) ([]byte, error) {
	if len(masterSecret) == 0 {
		return nil, fmt.Errorf("%w: master secret is empty", cryptoDomain.ErrInvalidKeySize)
	}
	if len(salt) < cryptoDomain.SaltSize {
		return nil, fmt.Errorf(
			"%w: salt must be at least %d bytes, got %d",
			cryptoDomain.ErrInvalidSalt,
			cryptoDomain.SaltSize,
			len(salt),
		)
	}

	if err := k.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer k.sem.Release(1)

	return pbkdf2.Key(masterSecret, salt, k.iterations, cryptoDomain.KeySize, sha256.New), nil
}
