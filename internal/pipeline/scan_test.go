package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScanFilterEmptyMatchesEverything(t *testing.T) {
	f := ScanFilter{}
	files := []string{"a.go", "b/vendor/c.go"}
	got := f.Apply(files)
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %d", len(got))
	}
}

func TestScanFilterIncludeRestrictsToMatches(t *testing.T) {
	f := ScanFilter{Include: []string{"**/*.go"}}
	got := f.Apply([]string{"a.go", "a.rs", "sub/b.go"})
	if len(got) != 2 || got[0] != "a.go" || got[1] != "sub/b.go" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestScanFilterExcludeDropsMatches(t *testing.T) {
	f := ScanFilter{Exclude: []string{"**/vendor/**"}}
	got := f.Apply([]string{"a.go", "third_party/vendor/b.go"})
	if len(got) != 1 || got[0] != "a.go" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestScanFilterExcludeAppliedAfterInclude(t *testing.T) {
	f := ScanFilter{Include: []string{"**/*.go"}, Exclude: []string{"**/vendor/**"}}
	got := f.Apply([]string{"a.go", "vendor/b.go", "c.rs"})
	if len(got) != 1 || got[0] != "a.go" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestOrchestratorRunAppliesScanFilter(t *testing.T) {
	d := NewDAG()
	if err := d.AddStage("a"); err != nil {
		t.Fatal(err)
	}

	var seen []string
	o := New(d)
	o.SetScanFilter(ScanFilter{Include: []string{"**/*.go"}})
	o.RegisterHandler(&recordingHandler{id: "a", seen: &seen})

	_, err := o.Run(context.Background(), StageInput{Files: []string{"a.go", "a.rs"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != "a.go" {
		t.Fatalf("expected filtered files [a.go], got %v", seen)
	}
}

func TestNewScanFilterWithGitignoreMergesExcludes(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := NewScanFilterWithGitignore(root, []string{"**/*.go"}, []string{"**/vendor/**"})
	if err != nil {
		t.Fatal(err)
	}

	got := f.Apply([]string{"a.go", "debug.log", "build/out.go", "vendor/c.go"})
	if len(got) != 1 || got[0] != "a.go" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestNewScanFilterWithGitignoreMissingFileIsNotError(t *testing.T) {
	root := t.TempDir()
	f, err := NewScanFilterWithGitignore(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Exclude) != 0 {
		t.Fatalf("expected no exclusions, got %v", f.Exclude)
	}
}

type recordingHandler struct {
	id   string
	seen *[]string
}

func (h *recordingHandler) ID() string { return h.id }

func (h *recordingHandler) Execute(ctx context.Context, in StageInput) (StageOutput, error) {
	*h.seen = in.Files
	return StageOutput{}, nil
}
