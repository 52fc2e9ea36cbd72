package app

import (
	"context"
	"fmt"

	filesHTTP "github.com/allisson/filevault/internal/files/http"
	filesRepository "github.com/allisson/filevault/internal/files/repository"
	filesService "github.com/allisson/filevault/internal/files/service"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
)

// BlobStore returns the blob store for encrypted file content.
func (c *Container) BlobStore() (filesService.BlobStore, error) {
	var err error
	c.blobStoreInit.Do(func() {
		c.blobStore, err = filesService.NewBlobStore(context.Background(), c.config.BlobBucketURL)
		if err != nil {
			c.initErrors["blobStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// FileRepository returns the file metadata repository based on database driver.
func (c *Container) FileRepository() (filesUseCase.FileRepository, error) {
	var err error
	c.fileRepositoryInit.Do(func() {
		c.fileRepository, err = c.initFileRepository()
		if err != nil {
			c.initErrors["fileRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileRepository"]; exists {
		return nil, storedErr
	}
	return c.fileRepository, nil
}

// FileUseCase returns the file use case.
func (c *Container) FileUseCase() (filesUseCase.FileUseCase, error) {
	var err error
	c.fileUseCaseInit.Do(func() {
		c.fileUseCase, err = c.initFileUseCase()
		if err != nil {
			c.initErrors["fileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileUseCase"]; exists {
		return nil, storedErr
	}
	return c.fileUseCase, nil
}

// FileHandler returns the HTTP handler for file operations.
func (c *Container) FileHandler() (*filesHTTP.FileHandler, error) {
	var err error
	c.fileHandlerInit.Do(func() {
		c.fileHandler, err = c.initFileHandler()
		if err != nil {
			c.initErrors["fileHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileHandler"]; exists {
		return nil, storedErr
	}
	return c.fileHandler, nil
}

// initFileRepository creates the file repository based on the database driver.
func (c *Container) initFileRepository() (filesUseCase.FileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for file repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return filesRepository.NewPostgreSQLFileRepository(db), nil
	case "mysql":
		return filesRepository.NewMySQLFileRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initFileUseCase creates the file use case with all its dependencies.
func (c *Container) initFileUseCase() (filesUseCase.FileUseCase, error) {
	fileRepository, err := c.FileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get file repository for file use case: %w", err)
	}

	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for file use case: %w", err)
	}

	envelope, err := c.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope service for file use case: %w", err)
	}

	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for file use case: %w", err)
	}

	baseUseCase := filesUseCase.NewFileUseCase(
		fileRepository,
		blobStore,
		envelope,
		c.Integrity(),
		masterKey,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
		}
		return filesUseCase.NewFileUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initFileHandler creates the file HTTP handler with all its dependencies.
func (c *Container) initFileHandler() (*filesHTTP.FileHandler, error) {
	fileUseCase, err := c.FileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get file use case for file handler: %w", err)
	}

	return filesHTTP.NewFileHandler(fileUseCase, c.Logger()), nil
}
