package supervisor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/sidecarctl/internal/testutil/testlog"
)

func writeBackendScript(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "backend"), []byte(script), 0o755); err != nil {
		t.Fatalf("write backend script: %v", err)
	}
	return dir
}

func TestCatalogResolvesPackagedBackend(t *testing.T) {
	testlog.Start(t)
	dir := writeBackendScript(t, "#!/bin/sh\nexit 0\n")
	catalog, err := NewCatalog(dir)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	path, err := catalog.Resolve(BackendSidecar)
	if err != nil {
		t.Fatalf("resolve backend: %v", err)
	}
	if path != filepath.Join(dir, "backend") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestCatalogRejectsUnknownName(t *testing.T) {
	testlog.Start(t)
	catalog, err := NewCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if _, err := catalog.Resolve("frontend"); !errors.Is(err, ErrUnknownSidecar) {
		t.Fatalf("expected ErrUnknownSidecar, got %v", err)
	}
}

func TestCatalogReportsMissingExecutable(t *testing.T) {
	testlog.Start(t)
	catalog, err := NewCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if _, err := catalog.Resolve(BackendSidecar); !errors.Is(err, ErrSidecarMissing) {
		t.Fatalf("expected ErrSidecarMissing, got %v", err)
	}
}

func TestCatalogNamesListsPackagedSet(t *testing.T) {
	testlog.Start(t)
	catalog, err := NewCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	names := catalog.Names()
	if len(names) != 1 || names[0] != BackendSidecar {
		t.Fatalf("unexpected packaged set: %v", names)
	}
}
