package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

const testMaxPayloadSize = 1 << 20

func newTestEnvelope(t *testing.T, alg cryptoDomain.Algorithm) *EnvelopeService {
	t.Helper()
	return NewEnvelope(NewAEADManager(), NewKeyDerivation(), alg, testMaxPayloadSize)
}

func newTestMasterKey(t *testing.T) *cryptoDomain.MasterKey {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	masterKey, err := cryptoDomain.NewMasterKey("test-master-key", key)
	require.NoError(t, err)
	return masterKey
}

func TestEnvelopeService_GenerateDataKey(t *testing.T) {
	envelope := newTestEnvelope(t, cryptoDomain.AESGCM)

	t.Run("generates 256-bit keys", func(t *testing.T) {
		dataKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)
		assert.Equal(t, 32, len(dataKey))
	})

	t.Run("keys are unique", func(t *testing.T) {
		key1, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		key2, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})
}

func TestEnvelopeService_WrapKey(t *testing.T) {
	ctx := context.Background()
	envelope := newTestEnvelope(t, cryptoDomain.AESGCM)
	masterKey := newTestMasterKey(t)

	t.Run("wrap and unwrap round-trip", func(t *testing.T) {
		dataKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		wrapped, err := envelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.SaltSize, len(wrapped.Salt))
		assert.Equal(t, 12, len(wrapped.Nonce))
		assert.Equal(t, cryptoDomain.AESGCM, wrapped.Algorithm)
		// wrapped material is data key plus the 16-byte tag
		assert.Equal(t, 32+16, len(wrapped.Ciphertext))

		unwrapped, err := envelope.UnwrapKey(ctx, wrapped, masterKey)
		require.NoError(t, err)
		assert.Equal(t, dataKey, unwrapped)
	})

	t.Run("wrapping the same key twice produces different outputs", func(t *testing.T) {
		dataKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		wrapped1, err := envelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)

		wrapped2, err := envelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)

		assert.NotEqual(t, wrapped1.Salt, wrapped2.Salt)
		assert.NotEqual(t, wrapped1.Nonce, wrapped2.Nonce)
		assert.NotEqual(t, wrapped1.Ciphertext, wrapped2.Ciphertext)

		// both still unwrap to the same data key
		unwrapped1, err := envelope.UnwrapKey(ctx, wrapped1, masterKey)
		require.NoError(t, err)
		unwrapped2, err := envelope.UnwrapKey(ctx, wrapped2, masterKey)
		require.NoError(t, err)
		assert.Equal(t, unwrapped1, unwrapped2)
	})

	t.Run("wrap rejects invalid data key size", func(t *testing.T) {
		shortKey := make([]byte, 16)
		_, err := envelope.WrapKey(ctx, shortKey, masterKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("wrap with ChaCha20-Poly1305", func(t *testing.T) {
		chachaEnvelope := newTestEnvelope(t, cryptoDomain.ChaCha20)

		dataKey, err := chachaEnvelope.GenerateDataKey()
		require.NoError(t, err)

		wrapped, err := chachaEnvelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.ChaCha20, wrapped.Algorithm)

		unwrapped, err := chachaEnvelope.UnwrapKey(ctx, wrapped, masterKey)
		require.NoError(t, err)
		assert.Equal(t, dataKey, unwrapped)
	})
}

func TestEnvelopeService_UnwrapKey(t *testing.T) {
	ctx := context.Background()
	envelope := newTestEnvelope(t, cryptoDomain.AESGCM)
	masterKey := newTestMasterKey(t)

	t.Run("unwrap with wrong master key fails", func(t *testing.T) {
		dataKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		wrapped, err := envelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)

		otherMasterKey := newTestMasterKey(t)
		unwrapped, err := envelope.UnwrapKey(ctx, wrapped, otherMasterKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnwrapFailed)
		assert.Nil(t, unwrapped)
	})

	t.Run("unwrap with tampered ciphertext fails", func(t *testing.T) {
		dataKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		wrapped, err := envelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)

		wrapped.Ciphertext[0] ^= 1

		unwrapped, err := envelope.UnwrapKey(ctx, wrapped, masterKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnwrapFailed)
		assert.Nil(t, unwrapped)
	})

	t.Run("unwrap with corrupted salt fails", func(t *testing.T) {
		dataKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		wrapped, err := envelope.WrapKey(ctx, dataKey, masterKey)
		require.NoError(t, err)

		wrapped.Salt[0] ^= 1

		_, err = envelope.UnwrapKey(ctx, wrapped, masterKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnwrapFailed)
	})
}

func TestEnvelopeService_EncryptPayload(t *testing.T) {
	envelope := newTestEnvelope(t, cryptoDomain.AESGCM)

	dataKey, err := envelope.GenerateDataKey()
	require.NoError(t, err)

	t.Run("encrypt and decrypt round-trip", func(t *testing.T) {
		plaintext := []byte("file content to protect")

		payload, err := envelope.EncryptPayload(plaintext, dataKey)
		require.NoError(t, err)
		assert.Equal(t, 12, len(payload.Nonce))
		assert.Equal(t, len(plaintext)+16, len(payload.Ciphertext))
		assert.NotEqual(t, plaintext, payload.Ciphertext)

		decrypted, err := envelope.DecryptPayload(payload, dataKey)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("ten byte payload layout", func(t *testing.T) {
		plaintext := []byte("0123456789")

		payload, err := envelope.EncryptPayload(plaintext, dataKey)
		require.NoError(t, err)
		assert.Equal(t, 12, len(payload.Nonce))
		assert.Equal(t, 26, len(payload.Ciphertext))
	})

	t.Run("empty payload", func(t *testing.T) {
		payload, err := envelope.EncryptPayload([]byte{}, dataKey)
		require.NoError(t, err)

		decrypted, err := envelope.DecryptPayload(payload, dataKey)
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})

	t.Run("payload over the size ceiling is rejected", func(t *testing.T) {
		tooBig := bytes.Repeat([]byte("a"), testMaxPayloadSize+1)

		payload, err := envelope.EncryptPayload(tooBig, dataKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrPayloadTooLarge)
		assert.Nil(t, payload)
	})

	t.Run("payload exactly at the size ceiling is accepted", func(t *testing.T) {
		atLimit := bytes.Repeat([]byte("a"), testMaxPayloadSize)

		payload, err := envelope.EncryptPayload(atLimit, dataKey)
		require.NoError(t, err)
		assert.NotNil(t, payload)
	})

	t.Run("encrypt with invalid data key fails", func(t *testing.T) {
		shortKey := make([]byte, 16)
		_, err := envelope.EncryptPayload([]byte("data"), shortKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestEnvelopeService_DecryptPayload(t *testing.T) {
	envelope := newTestEnvelope(t, cryptoDomain.AESGCM)

	dataKey, err := envelope.GenerateDataKey()
	require.NoError(t, err)

	t.Run("single flipped bit fails decryption", func(t *testing.T) {
		plaintext := []byte("file content to protect")

		payload, err := envelope.EncryptPayload(plaintext, dataKey)
		require.NoError(t, err)

		payload.Ciphertext[len(payload.Ciphertext)/2] ^= 0x01

		decrypted, err := envelope.DecryptPayload(payload, dataKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Nil(t, decrypted)
	})

	t.Run("decrypt with wrong data key fails", func(t *testing.T) {
		payload, err := envelope.EncryptPayload([]byte("data"), dataKey)
		require.NoError(t, err)

		otherKey, err := envelope.GenerateDataKey()
		require.NoError(t, err)

		decrypted, err := envelope.DecryptPayload(payload, otherKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Nil(t, decrypted)
	})

	t.Run("decrypt with corrupted nonce fails", func(t *testing.T) {
		payload, err := envelope.EncryptPayload([]byte("data"), dataKey)
		require.NoError(t, err)

		payload.Nonce[0] ^= 1

		_, err = envelope.DecryptPayload(payload, dataKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestEnvelopeService_FullFlow(t *testing.T) {
	ctx := context.Background()
	envelope := newTestEnvelope(t, cryptoDomain.AESGCM)
	masterKey := newTestMasterKey(t)

	// Upload path: data key -> encrypt content -> wrap key, then discard the
	// plaintext key. Download path: unwrap -> decrypt.
	content := []byte("the complete file body")

	dataKey, err := envelope.GenerateDataKey()
	require.NoError(t, err)

	payload, err := envelope.EncryptPayload(content, dataKey)
	require.NoError(t, err)

	wrapped, err := envelope.WrapKey(ctx, dataKey, masterKey)
	require.NoError(t, err)

	recoveredKey, err := envelope.UnwrapKey(ctx, wrapped, masterKey)
	require.NoError(t, err)

	recovered, err := envelope.DecryptPayload(payload, recoveredKey)
	require.NoError(t, err)
	assert.Equal(t, content, recovered)
}
