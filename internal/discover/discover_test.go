package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanFindsPDFsRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), 10)
	writeFile(t, filepath.Join(root, "sub", "b.pdf"), 20)
	writeFile(t, filepath.Join(root, "sub", "deep", "c.pdf"), 30)
	writeFile(t, filepath.Join(root, "notes.txt"), 5)
	writeFile(t, filepath.Join(root, "sub", "image.png"), 5)

	files, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 PDFs, got %d: %+v", len(files), files)
	}
	byName := map[string]types.PrintableFile{}
	for _, f := range files {
		byName[f.Name] = f
		if !filepath.IsAbs(f.Path) {
			t.Fatalf("path not absolute: %s", f.Path)
		}
		if f.Dir != filepath.Dir(f.Path) {
			t.Fatalf("dir mismatch for %s", f.Path)
		}
	}
	if byName["b.pdf"].SizeBytes != 20 {
		t.Fatalf("b.pdf size: got %d", byName["b.pdf"].SizeBytes)
	}
}

func TestScanMatchesExtensionCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "upper.PDF"), 1)
	writeFile(t, filepath.Join(root, "mixed.Pdf"), 1)
	writeFile(t, filepath.Join(root, "lower.pdf"), 1)

	files, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 PDFs, got %d", len(files))
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %d", len(files))
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "only.pdf")
	writeFile(t, path, 1)
	if _, err := Scan(path); err == nil {
		t.Fatal("expected error when root is a file")
	}
}

func TestTotalSize(t *testing.T) {
	files := []types.PrintableFile{
		{SizeBytes: 100},
		{SizeBytes: 250},
	}
	if got := TotalSize(files); got != 350 {
		t.Fatalf("TotalSize: got %d", got)
	}
	if got := TotalSize(nil); got != 0 {
		t.Fatalf("TotalSize(nil): got %d", got)
	}
}
