package domain

// WrappedKey is the persistable form of a per-file data key: the data key
// encrypted under a wrapping key derived from the master key and Salt.
//
// Layout contract (internal, shared only by the wrap/unwrap pair):
//   - Salt: random 16-byte salt fed to key derivation
//   - Nonce: random 12-byte AEAD nonce
//   - Ciphertext: AEAD output, authentication tag appended
//
// Every wrap operation generates a fresh Salt and Nonce, so wrapping the same
// data key twice yields different WrappedKey values. A WrappedKey can only be
// unwrapped with the master key that produced it; a wrong key fails closed.
type WrappedKey struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
	Algorithm  Algorithm
}

// EncryptedPayload is the result of authenticated encryption of file content
// under a data key.
//
// Layout contract (internal, shared only by the encrypt/decrypt pair):
//   - Nonce: random 12-byte AEAD nonce
//   - Ciphertext: AEAD output, authentication tag appended
//
// Decryption verifies the authentication tag before returning any plaintext;
// a mismatch fails the whole operation, never yielding partial output.
type EncryptedPayload struct {
	Nonce      []byte
	Ciphertext []byte
	Algorithm  Algorithm
}

// ContentDigest is a SHA-256 digest of plaintext content, computed at
// encryption time and stored for tamper/corruption detection on read.
type ContentDigest []byte
