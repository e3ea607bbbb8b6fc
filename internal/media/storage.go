// Package media stores post image attachments on local disk.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadBytes is the upload size ceiling (2048 KB).
const MaxUploadBytes = 2048 * 1024

// allowedExtensions maps accepted upload extensions to the MIME type recorded
// on the media row.
var allowedExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// ValidateHeader checks an uploaded file against the image rules and returns
// the list of rule failures (empty when the file is acceptable).
func ValidateHeader(fh *multipart.FileHeader) []string {
	var msgs []string

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		msgs = append(msgs, "The image must be a file of type: jpeg, png, jpg, gif, svg.")
	}
	if fh.Size > MaxUploadBytes {
		msgs = append(msgs, "The image must not be greater than 2048 kilobytes.")
	}
	return msgs
}

// Stored describes a file persisted by Save.
type Stored struct {
	FileName     string
	OriginalName string
	MimeType     string
	Size         int64
}

// Storage writes attachment files under a single directory. Files get UUID
// names; the original name is only kept as metadata.
type Storage struct {
	dir string
}

// NewStorage ensures dir exists and returns a Storage rooted at it.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the storage root, for wiring the static file route.
func (s *Storage) Dir() string {
	return s.dir
}

// Save writes the uploaded file to disk under a fresh UUID name.
func (s *Storage) Save(fh *multipart.FileHeader) (*Stored, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image extension %q", ext)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	return &Stored{
		FileName:     name,
		OriginalName: fh.Filename,
		MimeType:     mimeType,
		Size:         size,
	}, nil
}

// Remove deletes a stored file. A missing file is not an error: the row is
// the source of truth and the file may already be gone.
func (s *Storage) Remove(fileName string) error {
	err := os.Remove(filepath.Join(s.dir, fileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
