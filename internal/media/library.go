package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Library resolves media identifiers to absolute file paths under a single
// base directory. Objects are ingested by an external collaborator and are
// read-only here; an object must not be replaced while a read against it is
// in flight.
type Library struct {
	basePath string
}

// NewLibrary anchors the library at basePath, creating the directory if the
// ingestion side has not done so yet.
func NewLibrary(basePath string) (*Library, error) {
	if basePath == "" {
		return nil, errors.New("media path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve media path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media path: %w", err)
	}

	return &Library{basePath: abs}, nil
}

// Resolve maps an identifier to the object's absolute path and size.
// Identifiers that escape the base directory resolve to ErrNotFound rather
// than leaking whether the target exists.
func (l *Library) Resolve(id string) (string, int64, error) {
	rel := path.Clean("/" + id)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		return "", 0, ErrNotFound
	}

	filePath := filepath.Join(l.basePath, filepath.FromSlash(rel))
	if !strings.HasPrefix(filePath, l.basePath+string(filepath.Separator)) {
		return "", 0, ErrNotFound
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", 0, ErrNotFound
		}
		return "", 0, fmt.Errorf("stat media object: %w", err)
	}
	if info.IsDir() {
		return "", 0, ErrNotFound
	}

	return filePath, info.Size(), nil
}

// BasePath returns the absolute library root, for diagnostics output.
func (l *Library) BasePath() string {
	return l.basePath
}
