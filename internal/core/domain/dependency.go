package domain

import (
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// DefaultPackaging is the packaging assumed when a coordinate does not declare one.
const DefaultPackaging = "jar"

// SourcesSuffix is appended to a dependency's target name to name its sources archive.
const SourcesSuffix = "-sources.jar"

// VersionlessDependency identifies a library independently of its version.
// It is comparable and used as the deduplication key for external dependencies.
type VersionlessDependency struct {
	Group    string
	Artifact string
}

// Coords returns the Maven-style "group:artifact" form of the key.
func (v VersionlessDependency) Coords() string {
	return v.Group + ":" + v.Artifact
}

// String implements fmt.Stringer.
func (v VersionlessDependency) String() string {
	return v.Coords()
}

// ExternalDependency is a resolved library at a concrete version together with
// the location of its artifact on disk.
type ExternalDependency struct {
	Versionless  VersionlessDependency
	Version      string
	Classifier   string
	Packaging    string
	ArtifactPath string
	SourcesPath  string
}

// Identity returns the value used to collapse duplicate records of the same artifact.
// Artifact and sources paths do not participate.
func (d ExternalDependency) Identity() DependencyIdentity {
	return DependencyIdentity{
		Versionless: d.Versionless,
		Version:     d.Version,
		Classifier:  d.Classifier,
	}
}

// DependencyIdentity is the comparable identity of an ExternalDependency.
type DependencyIdentity struct {
	Versionless VersionlessDependency
	Version     string
	Classifier  string
}

// BasePath returns the cache partition of the dependency, relative to the cache root.
// It depends on group and artifact only.
func (d ExternalDependency) BasePath() string {
	return path.Join(strings.ReplaceAll(d.Versionless.Group, ".", "/"), d.Versionless.Artifact)
}

// TargetName returns "artifact-version" with the classifier appended when present.
func (d ExternalDependency) TargetName() string {
	name := d.Versionless.Artifact + "-" + d.Version
	if d.Classifier != "" {
		name += "-" + d.Classifier
	}
	return name
}

// PackagingOrDefault returns the declared packaging, or DefaultPackaging.
func (d ExternalDependency) PackagingOrDefault() string {
	if d.Packaging == "" {
		return DefaultPackaging
	}
	return d.Packaging
}

// DependencyFileName is the name of the artifact link inside the cache partition.
func (d ExternalDependency) DependencyFileName() string {
	return d.TargetName() + "." + d.PackagingOrDefault()
}

// SourceFileName is the name of the sources link inside the cache partition.
func (d ExternalDependency) SourceFileName() string {
	return d.TargetName() + SourcesSuffix
}

// HasSources reports whether a sources archive was resolved for the dependency.
func (d ExternalDependency) HasSources() bool {
	return d.SourcesPath != ""
}

// CacheName returns "group:artifact:version" with the classifier appended when present.
func (d ExternalDependency) CacheName() string {
	name := d.Versionless.Coords() + ":" + d.Version
	if d.Classifier != "" {
		name += ":" + d.Classifier
	}
	return name
}

// IsChanging reports whether the version denotes a mutable reference.
func (d ExternalDependency) IsChanging() bool {
	return strings.HasSuffix(d.Version, "+") || strings.HasSuffix(d.Version, "-SNAPSHOT")
}

// RuleName returns the fully qualified name of the prebuilt rule for the dependency.
func (d ExternalDependency) RuleName(cacheDir string) string {
	return "//" + path.Join(filepathToSlash(cacheDir), d.BasePath()) + ":" + d.DependencyFileName()
}

// RuntimeFile returns the path of the artifact link inside the runtime directory, rooted at the repository.
func (d ExternalDependency) RuntimeFile(cacheDir string) string {
	return path.Join(RuntimeDir(cacheDir), d.DependencyFileName())
}

// RuntimeDir returns the directory gathering every artifact consumed as a file, rooted at the repository.
func RuntimeDir(cacheDir string) string {
	return path.Join(filepathToSlash(cacheDir), RuntimeDirName)
}

// ParseCoordinates builds an ExternalDependency from "group:artifact:version[:classifier][@packaging]".
func ParseCoordinates(coords string) (ExternalDependency, error) {
	spec := strings.TrimSpace(coords)
	packaging := ""
	if at := strings.LastIndexByte(spec, '@'); at >= 0 {
		packaging = spec[at+1:]
		spec = spec[:at]
	}

	parts := strings.Split(spec, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return ExternalDependency{}, zerr.With(ErrInvalidCoordinates, "coordinates", coords)
	}
	for _, p := range parts {
		if p == "" {
			return ExternalDependency{}, zerr.With(ErrInvalidCoordinates, "coordinates", coords)
		}
	}

	dep := ExternalDependency{
		Versionless: VersionlessDependency{Group: parts[0], Artifact: parts[1]},
		Version:     parts[2],
		Packaging:   packaging,
	}
	if len(parts) == 4 {
		dep.Classifier = parts[3]
	}
	return dep, nil
}

func filepathToSlash(p string) string {
	return strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
}
