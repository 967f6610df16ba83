package uploads

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUpload    = errors.New("upload failed")
	ErrPublicURL = errors.New("failed to generate public URL")
	ErrMetadata  = errors.New("database error")
)

// ValidationError is returned before any storage or database call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ObjectStore is the bucket images are written to.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) (string, error)
	Delete(ctx context.Context, path string) error
}

// MetadataStore records stored images. repo.ImageRepoInterface satisfies it.
type MetadataStore interface {
	Create(image *models.Image) error
}

type File struct {
	Name     string
	Data     []byte
	MimeType string
}

type Request struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	ChatID      *uuid.UUID
	File        File
}

type Pipeline struct {
	store  ObjectStore
	images MetadataStore
	now    func() time.Time

	downloader *downloader
}

func NewPipeline(store ObjectStore, images MetadataStore) *Pipeline {
	return &Pipeline{
		store:      store,
		images:     images,
		now:        time.Now,
		downloader: newDownloader(nil),
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with "_".
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// StoragePath is {userId}/{workspaceId}/{unixMillis}-{sanitizedName}.
func StoragePath(userID, workspaceID uuid.UUID, at time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s", userID, workspaceID, at.UnixMilli(), SanitizeFileName(fileName))
}

var allowedImageExtensions = []string{"png", "jpeg", "jpg", "webp", "gif", "bmp", "svg"}

// ImageExtension returns the file extension for an allowed image MIME type.
func ImageExtension(mimeType string) (string, bool) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if !strings.HasPrefix(mt, "image/") {
		return "", false
	}
	ext := strings.TrimSuffix(strings.TrimPrefix(mt, "image/"), "+xml")
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return ext, true
		}
	}
	return ext, false
}

func validate(req Request) error {
	if req.UserID == uuid.Nil || req.WorkspaceID == uuid.Nil {
		return invalid("userId and workspaceId are required")
	}
	if req.File.Name == "" || len(req.File.Data) == 0 {
		return invalid("file is required")
	}
	if ext, ok := ImageExtension(req.File.MimeType); !ok {
		if ext == "" {
			return invalid("unsupported file type: %s", req.File.MimeType)
		}
		return invalid("Unsupported image format: %s. Supported formats: %s", ext, strings.Join(allowedImageExtensions, ", "))
	}
	return nil
}

// Save stores one file and records its metadata. When the metadata insert
// fails the stored object is deleted again; a failing delete is only logged.
func (p *Pipeline) Save(ctx context.Context, req Request) (*models.Image, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	path := StoragePath(req.UserID, req.WorkspaceID, p.now(), req.File.Name)
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":      req.UserID,
		"workspace_id": req.WorkspaceID,
		"storage_path": path,
	})

	if err := p.store.Upload(ctx, path, req.File.Data, req.File.MimeType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	// the object stays in the bucket when this fails
	publicURL, err := p.store.PublicURL(path)
	if err != nil || publicURL == "" {
		log.WithError(err).Error("public url unavailable for stored image")
		return nil, ErrPublicURL
	}

	image := &models.Image{
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		ChatID:      req.ChatID,
		URL:         publicURL,
		StoragePath: path,
		FileName:    req.File.Name,
		FileSize:    int64(len(req.File.Data)),
		MimeType:    req.File.MimeType,
	}
	if err := p.images.Create(image); err != nil {
		if delErr := p.store.Delete(ctx, path); delErr != nil {
			log.WithError(delErr).Error("failed to remove image after metadata insert failed")
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	log.WithField("image_id", image.ID).Info("image stored")
	return image, nil
}

// SaveAll stores files one at a time and stops at the first failure. Images
// stored before the failure are returned with the error.
func (p *Pipeline) SaveAll(ctx context.Context, reqs []Request) ([]*models.Image, error) {
	saved := make([]*models.Image, 0, len(reqs))
	for i, req := range reqs {
		image, err := p.Save(ctx, req)
		if err != nil {
			return saved, fmt.Errorf("file %d (%s): %w", i+1, req.File.Name, err)
		}
		saved = append(saved, image)
	}
	return saved, nil
}
