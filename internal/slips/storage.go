package slips

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Storage writes uploaded bank transfer slips to disk under random names, so
// an uploaded filename can never traverse out of the uploads directory.
type Storage interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ref string) (io.ReadCloser, error)
}

type storage struct {
	dir      string
	maxBytes int64
}

// NewStorage builds slip storage rooted at the configured uploads directory.
func NewStorage(cfg config.UploadsConfig) (Storage, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploads directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, "slips"), 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create uploads directory")
	}
	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &storage{dir: dir, maxBytes: maxBytes}, nil
}

// Save stores the file and returns its reference path.
func (s *storage) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported slip file type").
			WithDetails(map[string]any{"allowed": []string{".jpg", ".jpeg", ".png", ".pdf"}})
	}

	ref := filepath.Join("slips", uuid.NewString()+ext)
	path := filepath.Join(s.dir, ref)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create slip file")
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write slip file")
	}
	if written > s.maxBytes {
		os.Remove(path)
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("slip exceeds %d MB limit", s.maxBytes/(1024*1024)))
	}
	if written == 0 {
		os.Remove(path)
		return "", pkgerrors.New(pkgerrors.CodeValidation, "slip file is empty")
	}
	return ref, nil
}

// Open returns the stored slip for reading.
func (s *storage) Open(ref string) (io.ReadCloser, error) {
	clean := filepath.Clean(ref)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid slip reference")
	}
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "slip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open slip file")
	}
	return f, nil
}
