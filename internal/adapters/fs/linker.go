package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Linker = (*Linker)(nil)

// Linker places artifacts into the dependency cache as symbolic links.
type Linker struct{}

// NewLinker creates a new Linker.
func NewLinker() *Linker {
	return &Linker{}
}

// Link makes link a symlink to target, replacing any existing entry at link.
// A relative target is made absolute so the link does not depend on its location.
func (l *Linker) Link(target, link string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSymlinkFailed.Error()), "target", target)
	}

	if existing, err := os.Readlink(link); err == nil && existing == absTarget {
		return nil
	}

	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrSymlinkFailed.Error()), "path", link)
	}

	if err := os.Symlink(absTarget, link); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrSymlinkFailed.Error()), "path", link), "target", absTarget)
	}
	return nil
}
