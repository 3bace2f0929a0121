package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	"convertapi/internal/repository"
	"convertapi/internal/storage"
)

const defaultContentType = "application/octet-stream"

// Upload is an incoming file. Size is -1 when unknown.
type Upload struct {
	Reader      io.Reader
	Name        string
	ContentType string
	Size        int64
}

// FileListResult is a page of the upload catalog.
type FileListResult struct {
	Items []model.StoredFile `json:"data"`
	Total int                `json:"total"`
}

// UploadService is the blob store use case: it persists uploads and
// generated outputs and reads them back.
type UploadService interface {
	// Save writes the full stream under a fresh "uploads/<id>/<name>" key.
	// The original name is kept as display metadata only, so two uploads
	// with the same name never overwrite each other. When the catalog is
	// enabled the file is recorded there too; a catalog failure deletes the blob.
	Save(ctx context.Context, up Upload) (*model.StoredFile, error)

	// Store writes generated content under key.
	Store(ctx context.Context, key string, data []byte, contentType string) (*model.StoredFile, error)

	// Read returns the content stored at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// DownloadURL returns a presigned URL for path, or "" when the backend
	// cannot presign.
	DownloadURL(ctx context.Context, path string) (string, error)

	List(ctx context.Context, limit, offset int) (*FileListResult, error)
	Get(ctx context.Context, id string) (*model.StoredFile, error)
	Delete(ctx context.Context, id string) error
}

type uploadService struct {
	store         storage.Storage
	repo          repository.FileRepository
	presignExpiry time.Duration
	now           func() time.Time
}

// NewUploadService constructs an UploadService. repo may be nil when the
// catalog is disabled; catalog operations then report not found.
func NewUploadService(store storage.Storage, repo repository.FileRepository, presignExpiry time.Duration) UploadService {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &uploadService{store: store, repo: repo, presignExpiry: presignExpiry, now: time.Now}
}

func (s *uploadService) Save(ctx context.Context, up Upload) (*model.StoredFile, error) {
	const op = "upload.Save"

	if up.Reader == nil {
		return nil, apperr.New(apperr.KindValidation, op, "file is required")
	}
	ct := up.ContentType
	if ct == "" {
		ct = defaultContentType
	}

	id := uuid.NewString()
	key := storage.ScopedKey(storage.PrefixUploads, id, up.Name)

	info, err := s.store.Put(ctx, key, up.Reader, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": up.Name,
		},
	})
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindIO, op, err, "write %s", storage.SafeName(up.Name))
	}

	f := &model.StoredFile{
		ID:          id,
		Name:        up.Name,
		Path:        info.Key,
		Size:        info.Size,
		ContentType: ct,
		CreatedAt:   s.now().UTC(),
	}
	if s.repo == nil {
		return f, nil
	}

	stored, err := s.repo.Create(ctx, f)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, apperr.Wrap(apperr.KindStorage, op, fmt.Errorf("catalog save failed: %v; rollback delete failed: %v", err, delErr))
		}
		return nil, apperr.Wrapf(apperr.KindStorage, op, err, "catalog save failed")
	}
	return stored, nil
}

func (s *uploadService) Store(ctx context.Context, key string, data []byte, contentType string) (*model.StoredFile, error) {
	info, err := s.store.Put(ctx, key, bytesReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindIO, "upload.Store", err, "write %s", key)
	}
	return &model.StoredFile{
		ID:          scopeOf(key),
		Name:        storage.SafeName(key),
		Path:        info.Key,
		Size:        info.Size,
		ContentType: contentType,
		CreatedAt:   s.now().UTC(),
	}, nil
}

func (s *uploadService) Read(ctx context.Context, path string) ([]byte, error) {
	const op = "upload.Read"

	data, _, err := storage.ReadAll(ctx, s.store, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, op, err)
		}
		return nil, apperr.Wrapf(apperr.KindIO, op, err, "read %s", path)
	}
	return data, nil
}

func (s *uploadService) DownloadURL(ctx context.Context, path string) (string, error) {
	p, ok := s.store.(storage.Presigner)
	if !ok {
		return "", nil
	}
	u, err := p.PresignGet(ctx, path, s.presignExpiry)
	if err != nil {
		return "", apperr.Wrapf(apperr.KindIO, "upload.DownloadURL", err, "presign %s", path)
	}
	return u, nil
}

var errCatalogDisabled = apperr.New(apperr.KindNotFound, "upload", "upload catalog is not enabled")

func (s *uploadService) List(ctx context.Context, limit, offset int) (*FileListResult, error) {
	if s.repo == nil {
		return nil, errCatalogDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "upload.List", err)
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *uploadService) Get(ctx context.Context, id string) (*model.StoredFile, error) {
	const op = "upload.Get"

	if s.repo == nil {
		return nil, errCatalogDisabled
	}
	if id == "" {
		return nil, apperr.New(apperr.KindValidation, op, "id is required")
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, op, "file not found")
		}
		return nil, apperr.Wrap(apperr.KindStorage, op, err)
	}
	return f, nil
}

// Delete removes the blob first and keeps the catalog row if that fails,
// so the row never points at nothing while the blob still exists.
func (s *uploadService) Delete(ctx context.Context, id string) error {
	const op = "upload.Delete"

	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.Path); err != nil {
		return apperr.Wrapf(apperr.KindIO, op, err, "delete %s", f.Path)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStorage, op, err)
	}
	return nil
}
