package service

import (
	"context"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// EnvelopeService implements the Envelope interface for per-file envelope
// encryption.
//
// Each encrypted file gets its own random 256-bit data key, which encrypts
// the file content. The data key is then wrapped (encrypted) under a key
// derived from the master key and a fresh random salt, and only the wrapped
// form is handed back for storage. Compromise of one wrapped key therefore
// exposes at most one file, and the master key is only ever used on
// key-sized payloads, never on bulk content.
type EnvelopeService struct {
	aeadManager    AEADManager
	keyDeriver     KeyDeriver
	algorithm      cryptoDomain.Algorithm
	maxPayloadSize int64
}

// NewEnvelope creates a new EnvelopeService.
//
// Parameters:
//   - aeadManager: creates cipher instances for wrapping and payload encryption
//   - keyDeriver: derives wrapping keys from the master key and per-wrap salts
//   - algorithm: AEAD algorithm used for new encryptions (AESGCM or ChaCha20)
//   - maxPayloadSize: plaintext size ceiling in bytes for EncryptPayload
func NewEnvelope(
	aeadManager AEADManager,
	keyDeriver KeyDeriver,
	algorithm cryptoDomain.Algorithm,
	maxPayloadSize int64,
) *EnvelopeService {
	return &EnvelopeService{
		aeadManager:    aeadManager,
		keyDeriver:     keyDeriver,
		algorithm:      algorithm,
		maxPayloadSize: maxPayloadSize,
	}
}

// GenerateDataKey returns a fresh cryptographically secure random 256-bit key.
func (e *EnvelopeService) GenerateDataKey() ([]byte, error) {
	dataKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dataKey); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}
	return dataKey, nil
}

// WrapKey encrypts dataKey under a wrapping key derived from the master key.
//
// A fresh random salt is generated for every call, a wrapping key is derived
// from (masterKey, salt), and the data key is authenticated-encrypted under
// it with a fresh nonce. Two wraps of the same data key therefore never
// produce the same bytes, so wrapped-key reuse cannot be detected by an
// observer of stored metadata.
//
// The derived wrapping key is zeroed before returning.
func (e *EnvelopeService) WrapKey(
	ctx context.Context,
	dataKey []byte,
	masterKey *cryptoDomain.MasterKey,
) (*cryptoDomain.WrappedKey, error) {
	if len(dataKey) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	wrappingKey, err := e.keyDeriver.Derive(ctx, masterKey.Key, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(wrappingKey)

	aead, err := e.aeadManager.CreateCipher(wrappingKey, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(dataKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap data key: %w", err)
	}

	return &cryptoDomain.WrappedKey{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Algorithm:  e.algorithm,
	}, nil
}

// UnwrapKey recovers the plaintext data key from a WrappedKey.
//
// The wrapping key is re-derived from the master key and the stored salt,
// then the wrapped material is decrypted with tag verification. Any failure
// to authenticate (wrong master key, corrupted salt, tampered ciphertext)
// returns ErrKeyUnwrapFailed; no partial bytes are ever returned.
func (e *EnvelopeService) UnwrapKey(
	ctx context.Context,
	wrapped *cryptoDomain.WrappedKey,
	masterKey *cryptoDomain.MasterKey,
) ([]byte, error) {
	wrappingKey, err := e.keyDeriver.Derive(ctx, masterKey.Key, wrapped.Salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(wrappingKey)

	aead, err := e.aeadManager.CreateCipher(wrappingKey, wrapped.Algorithm)
	if err != nil {
		return nil, err
	}

	dataKey, err := aead.Decrypt(wrapped.Ciphertext, wrapped.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrKeyUnwrapFailed
	}

	return dataKey, nil
}

// EncryptPayload authenticated-encrypts plaintext under dataKey.
//
// Rejects plaintext larger than the configured ceiling with
// ErrPayloadTooLarge before any allocation proportional to the input.
func (e *EnvelopeService) EncryptPayload(plaintext, dataKey []byte) (*cryptoDomain.EncryptedPayload, error) {
	if int64(len(plaintext)) > e.maxPayloadSize {
		return nil, fmt.Errorf(
			"%w: %d bytes exceeds the %d byte limit",
			cryptoDomain.ErrPayloadTooLarge,
			len(plaintext),
			e.maxPayloadSize,
		)
	}

	aead, err := e.aeadManager.CreateCipher(dataKey, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	return &cryptoDomain.EncryptedPayload{
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Algorithm:  e.algorithm,
	}, nil
}

// DecryptPayload decrypts an EncryptedPayload under dataKey.
//
// The authentication tag is verified before returning plaintext; a mismatch
// from corruption or tampering fails the whole operation with
// ErrDecryptionFailed and no partial output is returned.
func (e *EnvelopeService) DecryptPayload(
	payload *cryptoDomain.EncryptedPayload,
	dataKey []byte,
) ([]byte, error) {
	aead, err := e.aeadManager.CreateCipher(dataKey, payload.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(payload.Ciphertext, payload.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}
