package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxUploadSize = 5 * 1024 * 1024

var (
	ErrFileTooLarge    = errors.New("file size exceeds the 5MB limit")
	ErrUnsupportedType = errors.New("only JPG, PNG and PDF files are allowed")

	allowedContentTypes = map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"application/pdf": ".pdf",
	}
)

// LocalStore writes uploaded payment slips to a directory served as
// static files under /uploads.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save validates content type and size by inspecting the bytes, not the
// client-declared header, and returns the public URL of the stored object.
func (s *LocalStore) Save(data []byte) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	mt := mimetype.Detect(data)
	ext, ok := allowedContentTypes[mt.String()]
	if !ok {
		return "", fmt.Errorf("%w: got %s", ErrUnsupportedType, mt.String())
	}

	filename := "payment-slip-" + uuid.NewString() + ext
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + filename, nil
}
