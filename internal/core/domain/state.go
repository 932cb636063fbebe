package domain

import "time"

// GeneratedFile is a rule file written by a generation run.
type GeneratedFile struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// GenerationState records the rule files written by the last run.
type GenerationState struct {
	Files     []GeneratedFile `json:"files,omitzero"`
	Timestamp time.Time       `json:"timestamp,omitzero"`
}

// Paths returns the recorded rule file paths.
func (s *GenerationState) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, len(s.Files))
	for i, f := range s.Files {
		paths[i] = f.Path
	}
	return paths
}

// HashOf returns the recorded hash for a path.
func (s *GenerationState) HashOf(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, f := range s.Files {
		if f.Path == path {
			return f.Hash, true
		}
	}
	return "", false
}
