package fs

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/zerr"
)

// Excluder matches module paths against gitignore-style patterns.
type Excluder struct {
	matcher  *ignore.GitIgnore
	patterns []string
}

// NewExcluder compiles patterns. Blank lines and comments are ignored as in a .gitignore file.
func NewExcluder(patterns []string) (*Excluder, error) {
	for _, p := range patterns {
		if strings.ContainsRune(p, '\n') {
			return nil, zerr.With(domain.ErrInvalidExcludePattern, "pattern", p)
		}
	}
	return &Excluder{
		matcher:  ignore.CompileIgnoreLines(patterns...),
		patterns: patterns,
	}, nil
}

// Excluded reports whether the module at path is excluded.
// The root module, with an empty path, is never excluded.
func (e *Excluder) Excluded(path string) bool {
	if e == nil || len(e.patterns) == 0 {
		return false
	}
	clean := strings.Trim(filepath.ToSlash(path), "/")
	if clean == "" || clean == "." {
		return false
	}
	// Module paths are directories, so a trailing slash lets "dir/" patterns match.
	return e.matcher.MatchesPath(clean + "/")
}
