package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vidtube/infrastructure/logger"
)

// File is a transient local copy of an uploaded part. It is consumed once
// by the blob store and released afterwards.
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

func (f *File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// ReleaseAll drops every buffer, logging failures instead of returning them.
func ReleaseAll(files ...*File) {
	for _, f := range files {
		if err := f.Release(); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Could not release upload buffer")
		}
	}
}

// Release removes the local copy. Releasing twice is not an error.
func (f *File) Release() error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release upload buffer %s: %w", f.Path, err)
	}
	return nil
}

type Buffer struct {
	dir     string
	maxSize int64
}

func NewBuffer(dir string, maxSize int64) (*Buffer, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "vidtube-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Buffer{dir: dir, maxSize: maxSize}, nil
}

var ErrTooLarge = errors.New("upload exceeds the size limit")

// Save copies a multipart part into the buffer directory under a random
// name so concurrent uploads of the same file name never collide.
func (b *Buffer) Save(header *multipart.FileHeader) (*File, error) {
	if b.maxSize > 0 && header.Size > b.maxSize {
		return nil, ErrTooLarge
	}
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload part: %w", err)
	}
	defer src.Close()

	name := filepath.Base(header.Filename)
	path := filepath.Join(b.dir, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload buffer: %w", err)
	}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write upload buffer: %w", err)
	}
	return &File{
		Path:        path,
		Name:        name,
		ContentType: header.Header.Get("Content-Type"),
		Size:        written,
	}, nil
}
