package domain

import (
	"github.com/allisson/filevault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305)
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys (master key, wrapping keys, and data keys) must be exactly
	// 32 bytes (256 bits) for both supported algorithms.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSalt indicates the salt is missing or shorter than 16 bytes.
	// Key derivation refuses to run with a weak or absent salt.
	ErrInvalidSalt = errors.Wrap(errors.ErrInvalidInput, "invalid salt")

	// ErrDecryptionFailed indicates an authenticated decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication-tag mismatch)
	//   - Invalid nonce provided
	//   - Corrupted encrypted data
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers. No partial plaintext is
	// ever returned.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyUnwrapFailed indicates a wrapped data key could not be unwrapped.
	//
	// The wrapping key re-derived from the stored salt did not authenticate
	// the wrapped key material: wrong master key, corrupted salt, or tampered
	// ciphertext. Fails closed, same as ErrDecryptionFailed.
	ErrKeyUnwrapFailed = errors.Wrap(errors.ErrInvalidInput, "key unwrap failed")

	// ErrPayloadTooLarge indicates the plaintext exceeds the configured size
	// ceiling for a single encryption operation. Oversized inputs are rejected
	// up front instead of attempting an allocation that could exhaust memory.
	ErrPayloadTooLarge = errors.Wrap(errors.ErrTooLarge, "payload too large")

	// ErrMasterKeyNotSet indicates the MASTER_KEY environment variable is missing.
	ErrMasterKeyNotSet = errors.New("MASTER_KEY environment variable is not set")

	// ErrInvalidMasterKeyBase64 indicates the master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("MASTER_KEY is not valid base64")
)
