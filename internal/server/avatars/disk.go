package avatars

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/accounts/internal/filex"
)

// DiskStore keeps avatars in a directory below the working directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dirName string) (*DiskStore, error) {
	dir, err := filex.EnsureSubdDir(dirName)
	if err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Dir is the absolute directory the store writes to.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Put(ctx context.Context, up Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := newObjectName(up.Filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, up.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return name, nil
}

func (s *DiskStore) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
