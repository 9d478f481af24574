// Package disk stores uploaded files on the local filesystem under a fixed
// upload root. Stored names carry a random uuid prefix so concurrent saves
// of the same filename never collide.
package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/google/uuid"
)

var _ storage.FileStore = (*Store)(nil)

// Store writes files under Root and hands back references of the form
// "{root}/{uuid}_{filename}".
type Store struct {
	Root string
}

// New creates a disk store rooted at dir.
func New(dir string) *Store {
	return &Store{Root: dir}
}

// Save writes data under a freshly generated storage name and returns the
// relative path to the stored file.
func (s *Store) Save(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Root, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + "_" + filepath.Base(filename)
	path := filepath.Join(s.Root, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes a previously stored file. A reference outside the upload
// root is rejected rather than followed.
func (s *Store) Remove(_ context.Context, ref string) error {
	if filepath.Dir(filepath.Clean(ref)) != filepath.Clean(s.Root) {
		return fmt.Errorf("reference %q is outside upload root", ref)
	}
	if err := os.Remove(ref); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", ref, err)
	}
	return nil
}

// StoredFile describes one file under the upload root.
type StoredFile struct {
	Ref     string
	ModTime time.Time
}

// List enumerates the files currently under the upload root. A missing root
// means nothing has been stored yet.
func (s *Store) List(_ context.Context) ([]StoredFile, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	var files []StoredFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{
			Ref:     filepath.Join(s.Root, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}
