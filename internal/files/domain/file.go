// Package domain defines the encrypted file metadata model.
//
// File content never touches the metadata store: the ciphertext lives in a
// blob bucket under StorageKey, and this record carries everything needed to
// recover and verify it: the wrapped data key material, the content nonce,
// the AEAD algorithm, and the plaintext SHA-256 digest.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// File represents an encrypted file's metadata.
type File struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Size    int64 // plaintext size in bytes

	// Envelope material. KeySalt and KeyNonce belong to the wrapped data key;
	// ContentNonce belongs to the encrypted content blob.
	Algorithm    cryptoDomain.Algorithm
	KeySalt      []byte
	KeyNonce     []byte
	WrappedKey   []byte
	ContentNonce []byte

	// SHA-256 digest of the plaintext, verified after decryption.
	Digest []byte

	// StorageKey addresses the ciphertext in the blob bucket.
	StorageKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WrappedKeyMaterial reassembles the stored columns into a WrappedKey.
func (f *File) WrappedKeyMaterial() *cryptoDomain.WrappedKey {
	return &cryptoDomain.WrappedKey{
		Salt:       f.KeySalt,
		Nonce:      f.KeyNonce,
		Ciphertext: f.WrappedKey,
		Algorithm:  f.Algorithm,
	}
}

// EncryptedContent reassembles the stored columns and blob bytes into an
// EncryptedPayload.
func (f *File) EncryptedContent(ciphertext []byte) *cryptoDomain.EncryptedPayload {
	return &cryptoDomain.EncryptedPayload{
		Nonce:      f.ContentNonce,
		Ciphertext: ciphertext,
		Algorithm:  f.Algorithm,
	}
}
