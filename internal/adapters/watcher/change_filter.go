package watcher

import (
	"sync"
	"unique"

	"go.trai.ch/buckle/internal/core/ports"
)

// ChangeFilter remembers the content hash of each watched file so that events
// which leave a file's content unchanged do not trigger a regeneration.
type ChangeFilter struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]string
	hasher ports.Hasher
}

// NewChangeFilter creates a new ChangeFilter.
func NewChangeFilter(hasher ports.Hasher) *ChangeFilter {
	return &ChangeFilter{
		hashes: make(map[unique.Handle[string]]string),
		hasher: hasher,
	}
}

// Prime records the current content of paths without reporting changes.
func (f *ChangeFilter) Prime(paths []string) {
	f.Changed(paths)
}

// Changed returns the paths whose content differs from the last recorded hash.
// A file that cannot be read counts as changed, so removals are reported.
func (f *ChangeFilter) Changed(paths []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var changed []string
	for _, path := range paths {
		key := unique.Make(path)
		hash, err := f.hasher.HashFile(path)
		if err != nil {
			hash = ""
		}

		previous, seen := f.hashes[key]
		if !seen || previous != hash || hash == "" {
			changed = append(changed, path)
		}
		f.hashes[key] = hash
	}
	return changed
}
