// Package domain defines the core cryptographic domain models for per-file
// envelope encryption.
//
// The key hierarchy is: Master Key → per-file Data Key → file content. A data
// key is generated for every encrypted file and immediately wrapped under a
// key derived from the master key and a fresh random salt, so the master key
// itself only ever touches key-sized payloads, never bulk file content.
package domain

import (
	"encoding/base64"
	"fmt"
	"os"
)

// MasterKey represents the process-wide master secret used to wrap per-file
// data keys.
//
// Exactly one master key exists per process: it is loaded once at startup,
// injected into the services that need it, and never mutated or rotated at
// runtime. Rotation would require rewrapping every stored file key and is an
// explicit non-goal of this design.
//
// Security considerations:
//   - The key material must be 32 bytes (256 bits)
//   - Keys should be generated with a cryptographically secure random source
//   - In production the key should be stored KMS-encrypted and unwrapped at
//     startup (see KMS_KEY_URI); plaintext env storage is for development
//
// Fields:
//   - ID: Identifier for the master key (e.g., "prod-master-key-2026")
//   - Key: The raw 32-byte master key material
type MasterKey struct {
	ID  string
	Key []byte
}

// NewMasterKey constructs a MasterKey after validating the key material size.
// The key slice is copied so the caller can zero its own buffer.
func NewMasterKey(id string, key []byte) (*MasterKey, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	material := make([]byte, KeySize)
	copy(material, key)

	return &MasterKey{ID: id, Key: material}, nil
}

// Close zeroes the master key material. Call during application shutdown.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

// LoadMasterKeyFromEnv loads the master key from environment variables.
//
// Environment variables:
//   - MASTER_KEY: base64-encoded key material (standard encoding)
//   - MASTER_KEY_ID: optional identifier (defaults to "master-key")
//
// When a KMS keeper is configured, the decoded MASTER_KEY value is KMS
// ciphertext; the caller decrypts it through the keeper and constructs the
// key via NewMasterKey instead of using this helper directly.
//
// Returns:
//   - A MasterKey ready for use
//   - ErrMasterKeyNotSet if MASTER_KEY is not configured
//   - ErrInvalidMasterKeyBase64 if base64 decoding fails
//   - ErrInvalidKeySize if the decoded key is not exactly 32 bytes
func LoadMasterKeyFromEnv() (*MasterKey, error) {
	raw := os.Getenv("MASTER_KEY")
	if raw == "" {
		return nil, ErrMasterKeyNotSet
	}

	id := os.Getenv("MASTER_KEY_ID")
	if id == "" {
		id = "master-key"
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}
	defer Zero(key)

	return NewMasterKey(id, key)
}

// WrappedMasterKey holds KMS ciphertext of the master key before unwrapping.
type WrappedMasterKey struct {
	ID         string
	Ciphertext []byte
}

// LoadWrappedMasterKeyFromEnv loads KMS-wrapped master key material from the
// same environment variables as LoadMasterKeyFromEnv. The decoded bytes are
// KMS ciphertext, not a usable key; the caller decrypts them through a keeper
// and constructs the key via NewMasterKey.
func LoadWrappedMasterKeyFromEnv() (*WrappedMasterKey, error) {
	raw := os.Getenv("MASTER_KEY")
	if raw == "" {
		return nil, ErrMasterKeyNotSet
	}

	id := os.Getenv("MASTER_KEY_ID")
	if id == "" {
		id = "master-key"
	}

	ciphertext, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}

	return &WrappedMasterKey{ID: id, Ciphertext: ciphertext}, nil
}
