package domain

// Algorithm represents the cryptographic algorithm used for authenticated encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted data. Decryption fails
// closed when the authentication tag does not verify.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag appended to the ciphertext
	//   - Hardware acceleration on modern CPUs
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag appended to the ciphertext
	//   - Constant-time software implementation
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of all symmetric keys in the system:
	// the master key, derived wrapping keys, and per-file data keys.
	KeySize = 32

	// SaltSize is the size in bytes of the random salt generated for each
	// key-wrapping operation. 16 bytes satisfies the minimum salt length
	// required by the key derivation contract.
	SaltSize = 16

	// DigestSize is the size in bytes of a content digest (SHA-256).
	DigestSize = 32
)
