package domain

import (
	"fmt"
	"strings"
)

// MergeType selects library or application manifest merging.
type MergeType int

const (
	// MergeTypeNone is the merge type of modules without manifests.
	MergeTypeNone MergeType = iota
	// MergeTypeLibrary merges as a library; a single manifest is copied directly.
	MergeTypeLibrary
	// MergeTypeApplication always runs the merge engine.
	MergeTypeApplication
)

// String returns the lowercase name of the merge type.
func (t MergeType) String() string {
	switch t {
	case MergeTypeLibrary:
		return "library"
	case MergeTypeApplication:
		return "application"
	default:
		return "none"
	}
}

// MergeState is the state of a module's manifest merge.
type MergeState int

const (
	// MergeUnresolved means the merge has not been attempted.
	MergeUnresolved MergeState = iota
	// MergeEmpty means the module has no manifests.
	MergeEmpty
	// MergeDirectCopy means a single library manifest was copied with SDK injection.
	MergeDirectCopy
	// MergeMerged means the merge engine combined the manifests.
	MergeMerged
	// MergeFailed means the merge engine reported errors.
	MergeFailed
)

// String returns the name of the state.
func (s MergeState) String() string {
	switch s {
	case MergeEmpty:
		return "EMPTY"
	case MergeDirectCopy:
		return "DIRECT_COPY"
	case MergeMerged:
		return "MERGED"
	case MergeFailed:
		return "FAILED"
	default:
		return "UNRESOLVED"
	}
}

// MergedManifest is the outcome of merging one module's manifests.
type MergedManifest struct {
	State MergeState
	// Path is the written manifest, relative to the project root. Empty for MergeEmpty.
	Path        string
	packageName string
}

// NewMergedManifest builds a result with the given package name.
func NewMergedManifest(state MergeState, path, packageName string) MergedManifest {
	return MergedManifest{State: state, Path: path, packageName: packageName}
}

// Package returns the manifest package name, or ErrPackageUnset when no manifest exists.
func (m MergedManifest) Package() (string, error) {
	if m.State == MergeEmpty || m.State == MergeUnresolved {
		return "", ErrPackageUnset
	}
	return m.packageName, nil
}

// HasOutput reports whether a manifest file was written.
func (m MergedManifest) HasOutput() bool {
	return m.Path != ""
}

// Severity is the severity of a diagnostic.
type Severity int

const (
	// SeverityInfo is informational.
	SeverityInfo Severity = iota
	// SeverityWarning does not fail an operation.
	SeverityWarning
	// SeverityError fails the operation that produced it.
	SeverityError
)

// String returns the uppercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Diagnostic is one record reported by a merge.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location string
}

// String formats the diagnostic as "SEVERITY: message at location".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at %s", d.Severity, d.Message, d.Location)
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// String joins every diagnostic, one per line.
func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// MergeResult is what a manifest merge engine returns.
type MergeResult struct {
	Document    []byte
	Diagnostics Diagnostics
}

// Succeeded reports whether the merge produced a usable document.
func (r MergeResult) Succeeded() bool {
	return len(r.Document) > 0 && !r.Diagnostics.HasErrors()
}
