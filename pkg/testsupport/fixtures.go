package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// LoadEnvironment merges the bundled platform descriptors with the
// descriptors found below dirs. Failures stop the test.
func LoadEnvironment(t *testing.T, dirs ...string) *semantic.Index {
	t.Helper()

	idx, err := LoadEnvironmentFromDirs(dirs...)
	if err != nil {
		t.Fatalf("load environment: %v", err)
	}
	return idx
}

// LoadEnvironmentFromDirs is LoadEnvironment without testing.T, for callers
// wiring fixtures in setup functions.
func LoadEnvironmentFromDirs(dirs ...string) (*semantic.Index, error) {
	idx, err := scout.Platform()
	if err != nil {
		return nil, fmt.Errorf("testsupport: load platform: %w", err)
	}
	for _, dir := range dirs {
		if dir == "" {
			return nil, errors.New("testsupport: descriptor directory is required")
		}
		model, err := semantic.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("testsupport: load %s: %w", dir, err)
		}
		if err := idx.Merge(model); err != nil {
			return nil, fmt.Errorf("testsupport: merge %s: %w", dir, err)
		}
	}
	return idx, nil
}

// MustFind returns the named type or stops the test.
func MustFind(t *testing.T, env semantic.Environment, name string) *semantic.Type {
	t.Helper()
	typ, err := semantic.Lookup(env, name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return typ
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden file at path, rewriting the file
// instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := CompareGolden(want, got); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}
