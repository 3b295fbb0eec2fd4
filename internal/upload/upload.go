// Package upload stores media files attached to test records. Files are
// renamed to a random UUID on save so original filenames never reach the
// filesystem.
package upload

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind selects the accepted extension set for a saved file.
type Kind int

const (
	// KindFoto accepts common image extensions.
	KindFoto Kind = iota
	// KindVideo accepts common video extensions.
	KindVideo
	// KindDocumento accepts contract/document extensions.
	KindDocumento
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrInvalidFilename      = errors.New("invalid stored filename")
)

var extensionsByKind = map[Kind]map[string]bool{
	KindFoto:      {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	KindVideo:     {".mp4": true, ".mov": true, ".webm": true},
	KindDocumento: {".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true},
}

// Store persists uploads under a single base directory.
type Store struct {
	dir string
}

// NewStore creates the base directory when missing and returns the store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}

	return &Store{dir: dir}, nil
}

// Dir returns the base directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a fresh UUID name, keeping only the
// lower-cased extension from the client filename. It returns the stored
// filename (not the full path).
func (s *Store) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extensionsByKind[kind][ext] {
		return "", ErrUnsupportedExtension
	}

	name := uuid.NewString() + ext

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", errors.Wrap(err, "creating stored file")
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())

		return "", errors.Wrap(err, "writing stored file")
	}

	if err := dst.Close(); err != nil {
		return "", errors.Wrap(err, "closing stored file")
	}

	return name, nil
}

// Path resolves a stored filename to its absolute path. Names carrying
// path separators or traversal segments are rejected.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidFilename
	}

	return filepath.Join(s.dir, name), nil
}

// Remove deletes a stored file. A missing file is not an error; callers
// remove media best-effort when the owning record goes away.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing stored file")
	}

	return nil
}
