package supervisor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownSidecar = errors.New("supervisor: unknown sidecar")
	ErrSidecarMissing = errors.New("supervisor: sidecar executable missing")
)

// BackendSidecar is the packaged backend executable name.
const BackendSidecar = "backend"

// Catalog is the fixed set of packaged sidecar executables under one
// directory. Only catalog entries may ever be launched.
type Catalog struct {
	dir     string
	entries map[string]string
}

// NewCatalog builds the packaged sidecar set rooted at dir. An empty dir
// resolves against the running executable's directory.
func NewCatalog(dir string) (*Catalog, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("supervisor: resolve executable dir: %w", err)
		}
		dir = filepath.Dir(exe)
	}
	return &Catalog{
		dir: dir,
		entries: map[string]string{
			BackendSidecar: "backend",
		},
	}, nil
}

// Resolve returns the executable path for one packaged sidecar name.
func (c *Catalog) Resolve(name string) (string, error) {
	file, ok := c.entries[strings.TrimSpace(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSidecar, name)
	}
	path := filepath.Join(c.dir, file)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSidecarMissing, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrSidecarMissing, path)
	}
	return path, nil
}

// Names lists the packaged sidecar names.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	return out
}
