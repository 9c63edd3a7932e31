package dtogen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlatformFSContainsClientDescriptors(t *testing.T) {
	data, err := fs.ReadFile(PlatformFS(), "client.yaml")
	if err != nil {
		t.Fatalf("expected platform descriptor to be readable: %v", err)
	}
	if !strings.Contains(string(data), "org.eclipse.scout.rt.client.ui.form.AbstractForm") {
		t.Fatalf("expected client descriptors to declare AbstractForm")
	}
}

func TestGenerateFS(t *testing.T) {
	model := os.DirFS(filepath.Join("pkg", "orchestrator", "testdata", "model"))
	report, err := GenerateFS(context.Background(), model, []string{"com.acme.client.NoteForm"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected failures: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(report.Results))
	}
	if got := report.Results[0].DtoType; got != "com.acme.shared.NoteFormData" {
		t.Fatalf("unexpected dto type %q", got)
	}
}

func TestGenerateDirs_AllRoots(t *testing.T) {
	report, err := GenerateDirs(context.Background(), []string{filepath.Join("pkg", "orchestrator", "testdata", "model")}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Results) != 2 || len(report.Failures) != 0 {
		t.Fatalf("unexpected report: %d results, %v", len(report.Results), report.Err())
	}
}
