// Package avatars stores uploaded avatar images. Objects are addressed by a
// generated name; callers build the public URL by prefixing the configured
// avatar base URL.
package avatars

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid avatar name")

// Upload is a single file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Store interface {
	// Put stores the upload and returns the generated object name.
	Put(ctx context.Context, up Upload) (string, error)
	// Delete removes a previously stored object. Missing objects are not an error.
	Delete(ctx context.Context, name string) error
	// SeedDefault stores DefaultImage as name unless that object already exists.
	SeedDefault(ctx context.Context, name string) error
}

// newObjectName is a seam for tests.
var newObjectName = func(filename string) string {
	return uuid.NewString() + extension(filename)
}

// extension returns the lowercased extension of filename, or "" when it is
// not a short alphanumeric suffix.
func extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
