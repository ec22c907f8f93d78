package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fi44er/storefront/utils"
	"github.com/google/uuid"
)

const URLPrefix = "/uploads/"

var (
	ErrNotImage    = errors.New("only image files are allowed")
	ErrTooLarge    = errors.New("file exceeds the upload size limit")
	ErrInvalidName = errors.New("invalid file name")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadResult describes a stored file.
type UploadResult struct {
	Name        string
	URL         string
	ContentType string
	Size        int64
}

// LocalStore keeps uploaded payment proofs on disk under dir.
type LocalStore struct {
	dir      string
	maxBytes int64
	logger   *utils.Logger
}

func NewLocalStore(dir string, maxBytes int64, logger *utils.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes, logger: logger}, nil
}

func (s *LocalStore) MaxBytes() int64 {
	return s.maxBytes
}

// SaveImage stores r under a fresh random name. Both the declared content
// type and the sniffed bytes must be an accepted image type.
func (s *LocalStore) SaveImage(r io.Reader, originalName, contentType string) (*UploadResult, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	sniffed := http.DetectContentType(data)
	ext, ok := imageExtensions[sniffed]
	if !ok {
		s.logger.Warnf("Rejected upload %q: declared %s, detected %s", originalName, contentType, sniffed)
		return nil, ErrNotImage
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Infof("📎 Stored upload %q as %s (%d bytes)", originalName, name, len(data))
	return &UploadResult{Name: name, URL: s.URL(name), ContentType: sniffed, Size: int64(len(data))}, nil
}

// Open returns a stored file and its content type.
func (s *LocalStore) Open(name string) (io.ReadSeekCloser, string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, "", ErrInvalidName
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, "", err
	}
	return f, contentTypeFor(name), nil
}

func (s *LocalStore) URL(name string) string {
	return URLPrefix + name
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for ct, e := range imageExtensions {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}
