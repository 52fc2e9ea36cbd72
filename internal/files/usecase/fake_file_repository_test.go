package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// fakeFileRepository is a thread-safe in-memory FileRepository.
type fakeFileRepository struct {
	mu    sync.Mutex
	files map[uuid.UUID]*filesDomain.File
}

func newFakeFileRepository() *fakeFileRepository {
	return &fakeFileRepository{files: map[uuid.UUID]*filesDomain.File{}}
}

func cloneFile(file *filesDomain.File) *filesDomain.File {
	clone := *file
	clone.KeySalt = append([]byte(nil), file.KeySalt...)
	clone.KeyNonce = append([]byte(nil), file.KeyNonce...)
	clone.WrappedKey = append([]byte(nil), file.WrappedKey...)
	clone.ContentNonce = append([]byte(nil), file.ContentNonce...)
	clone.Digest = append([]byte(nil), file.Digest...)
	return &clone
}

func (f *fakeFileRepository) Create(_ context.Context, file *filesDomain.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.files[file.ID] = cloneFile(file)
	return nil
}

func (f *fakeFileRepository) GetByID(_ context.Context, id uuid.UUID) (*filesDomain.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, ok := f.files[id]
	if !ok {
		return nil, filesDomain.ErrFileNotFound
	}
	return cloneFile(file), nil
}

func (f *fakeFileRepository) ListByOwner(
	_ context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*filesDomain.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var owned []*filesDomain.File
	for _, file := range f.files {
		if file.OwnerID == ownerID {
			owned = append(owned, cloneFile(file))
		}
	}

	// UUIDv7 IDs sort by creation time.
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].ID.String() > owned[j].ID.String()
	})

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (f *fakeFileRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.files[id]; !ok {
		return filesDomain.ErrFileNotFound
	}
	delete(f.files, id)
	return nil
}
