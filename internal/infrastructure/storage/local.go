package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// LocalStorage keeps blobs on the filesystem under a single root. Every
// namespace is a directory below the root.
type LocalStorage struct {
	rootAbs string
}

var _ ports.BlobStorage = (*LocalStorage)(nil)

func NewLocalStorage(root string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(rootAbs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &LocalStorage{rootAbs: rootAbs}, nil
}

func (s *LocalStorage) RootAbs() string {
	return s.rootAbs
}

func (s *LocalStorage) EnsureNamespace(_ context.Context, ns string) error {
	dir, err := s.resolve(ns, "")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %q: %w", ns, err)
	}
	return nil
}

// Put writes to a temporary file and renames it into place, so readers never
// observe a partial blob.
func (s *LocalStorage) Put(_ context.Context, ns, name string, r io.Reader, _ int64, _ string) error {
	target, err := s.resolve(ns, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %q: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %q: %w", name, err)
	}
	return nil
}

func (s *LocalStorage) Open(_ context.Context, ns, name string) (io.ReadCloser, *ports.BlobInfo, error) {
	path, err := s.resolve(ns, name)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, nil, domain.ErrNotFound
	}

	return file, &ports.BlobInfo{
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		ModTime:     info.ModTime(),
	}, nil
}

func (s *LocalStorage) Remove(_ context.Context, ns, name string) error {
	path, err := s.resolve(ns, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

// resolve joins ns and name under the root and refuses anything that would
// land outside it.
func (s *LocalStorage) resolve(ns, name string) (string, error) {
	rel := strings.ReplaceAll(strings.TrimSpace(ns), `\`, "/")
	if name != "" {
		if strings.ContainsAny(name, `/\`) {
			return "", fmt.Errorf("%w: invalid name %q", domain.ErrNotFound, name)
		}
		rel += "/" + name
	}
	if rel == "" || hasControlCharacters(rel) {
		return "", fmt.Errorf("%w: invalid path %q", domain.ErrNotFound, rel)
	}
	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: path traversal in %q", domain.ErrNotFound, rel)
		}
	}

	resolved, err := filepath.Abs(filepath.Join(s.rootAbs, filepath.Clean(strings.TrimPrefix(rel, "/"))))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	if !isWithinRoot(s.rootAbs, resolved) || resolved == s.rootAbs {
		return "", fmt.Errorf("%w: %q escapes storage root", domain.ErrNotFound, rel)
	}
	return resolved, nil
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}

func isWithinRoot(rootAbs, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}
	return strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator))
}
