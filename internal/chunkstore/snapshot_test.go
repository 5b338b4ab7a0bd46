package chunkstore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestFindSnapshots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.md", "# Page\n\ncontent")
	writeFile(t, root, "nested/deep.md", "# Deep\n\ncontent")
	writeFile(t, root, "notes.markdown", "# Notes\n\ncontent")
	writeFile(t, root, "image.png", "not markdown")
	writeFile(t, root, "drafts/skip.md", "# Draft\n\ncontent")

	files, err := FindSnapshots(root, nil, []string{"drafts/**"})
	if err != nil {
		t.Fatalf("FindSnapshots: %v", err)
	}

	got := map[string]bool{}
	for _, f := range files {
		got[f.RelPath] = true
	}

	for _, want := range []string{"page.md", "nested/deep.md", "notes.markdown"} {
		if !got[want] {
			t.Errorf("expected %s in results, got %v", want, got)
		}
	}
	if got["image.png"] {
		t.Error("non-markdown file should be excluded")
	}
	if got["drafts/skip.md"] {
		t.Error("excluded pattern should be honored")
	}
}

func TestFindSnapshotsCustomInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.md", "content")
	writeFile(t, root, "page.txt", "content")

	files, err := FindSnapshots(root, []string{"**/*.txt"}, nil)
	if err != nil {
		t.Fatalf("FindSnapshots: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "page.txt" {
		t.Errorf("unexpected files: %+v", files)
	}
}

func TestChunkSnapshot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guide.md", "# Guide\n\nSome content here.")

	chunks, err := ChunkSnapshot(SnapshotFile{
		Path:    filepath.Join(root, "guide.md"),
		RelPath: "guide.md",
	})
	if err != nil {
		t.Fatalf("ChunkSnapshot: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Metadata.PageURL != "guide.md" {
		t.Errorf("chunks should be keyed by the relative path, got %q", chunks[0].Metadata.PageURL)
	}
}

func TestChunkSnapshotMissingFile(t *testing.T) {
	_, err := ChunkSnapshot(SnapshotFile{Path: "/does/not/exist.md", RelPath: "exist.md"})
	if err == nil {
		t.Error("expected error for missing file")
	}
}
