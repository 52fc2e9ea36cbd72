package domain

import "context"

// KMSKeeper abstracts the subset of a KMS keeper used to protect the master
// key at rest. *secrets.Keeper from gocloud.dev satisfies this interface.
type KMSKeeper interface {
	// Encrypt encrypts plaintext using the KMS key.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext using the KMS key.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)

	// Close releases any resources held by the keeper.
	Close() error
}
