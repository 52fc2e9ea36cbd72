package service

import (
	"crypto/sha256"
	"crypto/subtle"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// IntegrityService implements the Integrity interface using SHA-256 digests.
//
// Digests are computed over plaintext content before encryption and verified
// after decryption, so storage-level corruption that somehow survives AEAD
// authentication is still caught before content reaches the caller.
type IntegrityService struct{}

// NewIntegrity creates a new IntegrityService.
func NewIntegrity() *IntegrityService {
	return &IntegrityService{}
}

// Digest returns the SHA-256 digest of content.
func (i *IntegrityService) Digest(content []byte) cryptoDomain.ContentDigest {
	sum := sha256.Sum256(content)
	return sum[:]
}

// Verify recomputes the digest of content and compares it against expected in
// constant time. A length mismatch is an immediate failure; equal-length
// digests are compared with subtle.ConstantTimeCompare so the comparison does
// not leak the position of the first differing byte.
func (i *IntegrityService) Verify(content []byte, expected cryptoDomain.ContentDigest) bool {
	actual := i.Digest(content)
	if len(actual) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
