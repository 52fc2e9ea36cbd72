package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap the master key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDerivation returns the key derivation service.
func (c *Container) KeyDerivation() cryptoService.KeyDeriver {
	c.keyDerivationInit.Do(func() {
		c.keyDerivation = cryptoService.NewKeyDerivation()
	})
	return c.keyDerivation
}

// Integrity returns the integrity verification service.
func (c *Container) Integrity() cryptoService.Integrity {
	c.integrityInit.Do(func() {
		c.integrity = cryptoService.NewIntegrity()
	})
	return c.integrity
}

// Envelope returns the envelope encryption service.
func (c *Container) Envelope() (cryptoService.Envelope, error) {
	var err error
	c.envelopeInit.Do(func() {
		c.envelope, err = c.initEnvelope()
		if err != nil {
			c.initErrors["envelope"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelope"]; exists {
		return nil, storedErr
	}
	return c.envelope, nil
}

// MasterKey returns the process master key.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// initEnvelope creates the envelope service after validating the configured algorithm.
func (c *Container) initEnvelope() (cryptoService.Envelope, error) {
	algorithm := cryptoDomain.Algorithm(c.config.EncryptionAlgorithm)
	switch algorithm {
	case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
	default:
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", c.config.EncryptionAlgorithm)
	}

	return cryptoService.NewEnvelope(
		c.AEADManager(),
		c.KeyDerivation(),
		algorithm,
		c.config.MaxPayloadSize,
	), nil
}

// initMasterKey loads the master key, unwrapping it through KMS when configured.
//
// Without KMS_KEY_URI the MASTER_KEY environment variable holds the base64
// plaintext key. With KMS_KEY_URI it holds base64 KMS ciphertext that is
// decrypted through the configured keeper at startup.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	if c.config.KMSKeyURI == "" {
		return cryptoDomain.LoadMasterKeyFromEnv()
	}

	logger := c.Logger()
	logger.Info("unwrapping master key via KMS", slog.String("key_uri", c.config.KMSKeyURI))

	ctx := context.Background()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.String("error", closeErr.Error()))
		}
	}()

	ciphertextKey, err := cryptoDomain.LoadWrappedMasterKeyFromEnv()
	if err != nil {
		return nil, err
	}

	plaintext, err := keeper.Decrypt(ctx, ciphertextKey.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master key via KMS: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	return cryptoDomain.NewMasterKey(ciphertextKey.ID, plaintext)
}
