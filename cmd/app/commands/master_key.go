package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// used to wrap per-file data keys. Key material is zeroed from memory after
// encoding. If keyID is empty, generates a default ID in format
// "master-key-YYYY-MM-DD".
//
// When kmsKeyURI is provided the key is encrypted through the KMS keeper
// before output, and the printed MASTER_KEY value is KMS ciphertext. Without
// kmsKeyURI the key is printed as plaintext base64, which is only acceptable
// for development.
//
// Output format:
//   - MASTER_KEY="<base64 key material or KMS ciphertext>"
//   - MASTER_KEY_ID="<keyID>"
//   - KMS_KEY_URI="<uri>" (KMS mode only)
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID string,
	kmsKeyURI string,
) error {
	// Generate default key ID if not provided
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsKeyURI == "" {
		logger.Warn("generating plaintext master key, use --kms-key-uri in production")

		_, _ = fmt.Fprintln(writer, "# Master Key Configuration (plaintext mode, development only)")
		_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(masterKey))
		_, _ = fmt.Fprintf(writer, "MASTER_KEY_ID=\"%s\"\n", keyID)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))
	_, _ = fmt.Fprintf(writer, "MASTER_KEY_ID=\"%s\"\n", keyID)

	return nil
}
