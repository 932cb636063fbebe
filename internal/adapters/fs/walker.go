// Package fs provides file system adapters for walking, hashing and linking files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Entry is a non-directory entry found by the Walker.
type Entry struct {
	// Path starts with the walked root.
	Path string
	// Rel is Path relative to the walked root, using forward slashes.
	Rel  string
	Type fs.FileMode
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkEntries yields every file and symlink under root in lexical order.
// Symlinks are reported, never followed. Directories named in skip are not entered.
func (w *Walker) WalkEntries(root string, skip ...string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && w.shouldSkipDir(d.Name(), skip) {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}

			if !yield(Entry{Path: path, Rel: filepath.ToSlash(rel), Type: d.Type()}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, err)
		}
	}
}

// shouldSkipDir reports whether a directory is version control metadata or listed in skip.
func (w *Walker) shouldSkipDir(name string, skip []string) bool {
	if name == ".git" || name == ".jj" {
		return true
	}
	for _, s := range skip {
		if matched, _ := filepath.Match(s, name); matched {
			return true
		}
	}
	return false
}
