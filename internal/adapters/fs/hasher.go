package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash fingerprints of files and trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// HashBytes returns the hex xxhash of data.
func (h *Hasher) HashBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// HashFile returns the hex xxhash of a file's content.
func (h *Hasher) HashFile(path string) (string, error) {
	sum, err := h.fileSum(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

func (h *Hasher) fileSum(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return digest.Sum64(), nil
}

// HashTree fingerprints every entry under root. Each entry contributes its
// relative path, then its link target for symlinks or its content hash for
// regular files. Entries are visited in lexical order so the result is stable.
func (h *Hasher) HashTree(root string) (string, error) {
	if _, err := os.Lstat(root); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", root)
	}

	digest := xxhash.New()

	for entry, err := range h.walker.WalkEntries(root) {
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", root)
		}

		_, _ = digest.WriteString(entry.Rel)
		_, _ = digest.Write([]byte{0})

		if entry.Type&fs.ModeSymlink != 0 {
			target, err := os.Readlink(entry.Path)
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", entry.Path)
			}
			_, _ = digest.WriteString("->" + target)
			_, _ = digest.Write([]byte{0})
			continue
		}

		sum, err := h.fileSum(entry.Path)
		if err != nil {
			return "", err
		}
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}
