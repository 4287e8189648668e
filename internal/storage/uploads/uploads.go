package uploads

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrInvalidImage    = errors.New("invalid image data")
	ErrInvalidFileName = errors.New("invalid file name")
	ErrFileNotExists   = errors.New("file does not exist")
)

// BaseURI is the public prefix photos are served under; the stored photoUri
// is BaseURI plus the generated file name.
const BaseURI = "/photos"

type IPhotos interface {
	SavePhoto(image []byte, ext string) (string, error)
	DeletePhoto(uri string) error
	Dir() string
}

type Photos struct {
	folderPath string
	mu         sync.RWMutex
}

func NewPhotos(folderPath string) (*Photos, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	folderPath = filepath.Clean(folderPath)

	p := &Photos{folderPath: folderPath}

	if err := p.ensureFolderExists(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Photos) ensureFolderExists() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := os.Stat(p.folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(p.folderPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// SavePhoto stores the image under a fresh uuid name and returns the URI to
// put into the record's photoUri field.
func (p *Photos) SavePhoto(image []byte, ext string) (string, error) {
	if len(image) == 0 {
		return "", ErrInvalidImage
	}

	ext = sanitizeExt(ext)
	filename := uuid.New().String() + ext
	fullPath := filepath.Join(p.folderPath, filename)

	p.mu.Lock()
	defer p.mu.Unlock()

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(image); err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("write photo file: %w", err)
	}

	return path.Join(BaseURI, filename), nil
}

// DeletePhoto removes the file a photoUri points at. URIs from outside this
// store are rejected rather than resolved.
func (p *Photos) DeletePhoto(uri string) error {
	filename := path.Base(uri)
	if filename == "" || filename == "." || filename == "/" || strings.ContainsAny(filename, `/\`) {
		return ErrInvalidFileName
	}

	fullPath := filepath.Join(p.folderPath, filename)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return ErrFileNotExists
	}

	return os.Remove(fullPath)
}

func (p *Photos) Dir() string {
	return p.folderPath
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ".jpg"
		}
	}
	return ext
}
