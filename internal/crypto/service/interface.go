// Package service provides the cryptographic services for per-file envelope
// encryption: key derivation, AEAD ciphers, data-key wrapping, and content
// integrity verification.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives symmetric wrapping keys from the master secret and a salt.
//
// Derivation is deterministic: the same (secret, salt) pair always yields the
// same key, which is what makes unwrapping possible later. The work factor is
// deliberately high, so implementations accept a context and may block.
type KeyDeriver interface {
	// Derive produces a 256-bit key from masterSecret and salt.
	// Fails if the secret is absent or the salt is shorter than 16 bytes.
	Derive(ctx context.Context, masterSecret, salt []byte) ([]byte, error)
}

// Envelope manages per-file data keys and payload encryption in the envelope
// encryption scheme: a random data key encrypts the file content, and the data
// key itself is wrapped under a key derived from the master key.
type Envelope interface {
	// GenerateDataKey returns a fresh random 256-bit data key.
	GenerateDataKey() ([]byte, error)

	// WrapKey encrypts dataKey under a key derived from the master key and a
	// fresh random salt. Two calls with identical inputs produce different
	// outputs (fresh salt and nonce each time).
	WrapKey(ctx context.Context, dataKey []byte, masterKey *cryptoDomain.MasterKey) (*cryptoDomain.WrappedKey, error)

	// UnwrapKey recovers the plaintext data key from a WrappedKey.
	// Returns ErrKeyUnwrapFailed if the authentication tag does not verify.
	UnwrapKey(ctx context.Context, wrapped *cryptoDomain.WrappedKey, masterKey *cryptoDomain.MasterKey) ([]byte, error)

	// EncryptPayload authenticated-encrypts plaintext under dataKey.
	// Returns ErrPayloadTooLarge if plaintext exceeds the configured ceiling.
	EncryptPayload(plaintext, dataKey []byte) (*cryptoDomain.EncryptedPayload, error)

	// DecryptPayload decrypts and verifies an EncryptedPayload.
	// Returns ErrDecryptionFailed on any authentication failure.
	DecryptPayload(payload *cryptoDomain.EncryptedPayload, dataKey []byte) ([]byte, error)
}

// Integrity computes and verifies content digests for corruption detection.
type Integrity interface {
	// Digest returns the SHA-256 digest of content.
	Digest(content []byte) cryptoDomain.ContentDigest

	// Verify recomputes the digest of content and compares it against expected
	// in constant time. Returns false on mismatch, never an error.
	Verify(content []byte, expected cryptoDomain.ContentDigest) bool
}
