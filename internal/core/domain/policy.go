package domain

import "slices"

// DependencyPolicy holds the project-wide rules for external dependency versions.
type DependencyPolicy struct {
	// Versionless enforces a single version per dependency key unless allow-listed.
	Versionless bool
	// AllowList maps "group:artifact" to the versions allowed to coexist.
	// An empty version list allows every version of the key.
	AllowList map[string][]string
	// FailOnChanging aborts generation when a changing version is found.
	FailOnChanging bool
}

// IsVersioned reports whether the key is present in the allow-list.
func (p DependencyPolicy) IsVersioned(key VersionlessDependency) bool {
	_, ok := p.AllowList[key.Coords()]
	return ok
}

// IsAllowed reports whether the dependency may coexist with other versions of its key.
func (p DependencyPolicy) IsAllowed(dep ExternalDependency) bool {
	versions, ok := p.AllowList[dep.Versionless.Coords()]
	if !ok {
		return false
	}
	return len(versions) == 0 || slices.Contains(versions, dep.Version)
}
