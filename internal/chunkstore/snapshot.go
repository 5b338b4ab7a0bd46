package chunkstore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches the markdown page snapshots the extension exports.
var DefaultInclude = []string{"**/*.md", "**/*.markdown"}

// SnapshotFile is a page snapshot discovered on disk.
type SnapshotFile struct {
	Path    string // absolute path on disk
	RelPath string // path relative to the snapshot root, used as the page URL
}

// FindSnapshots walks root and returns every file matching the include
// patterns and none of the exclude patterns. Patterns are doublestar globs
// matched against the slash-separated relative path.
func FindSnapshots(root string, include, exclude []string) ([]SnapshotFile, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot root: %w", err)
	}

	var files []SnapshotFile
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}

		files = append(files, SnapshotFile{Path: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

// ChunkSnapshot reads a snapshot file and splits it into chunks keyed by its
// relative path.
func ChunkSnapshot(f SnapshotFile) ([]Chunk, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", f.Path, err)
	}
	return ChunkMarkdown(f.RelPath, data), nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
