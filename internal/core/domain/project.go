package domain

// Settings are the project-wide generator options read from buckle.yaml.
type Settings struct {
	// Root is the absolute project root.
	Root string
	// CacheDir is the external dependency cache, relative to Root.
	CacheDir string
	// GenDir holds generated manifests, relative to Root.
	GenDir string
	// BuckFileName is the name of every written rule file.
	BuckFileName string
	Policy       DependencyPolicy
	// Exclude holds gitignore-style patterns matched against module paths.
	Exclude []string
	// TransformRunner is the rule that provides the transform command line tool.
	TransformRunner string
	// TransformMainClass is the entry point invoked by transform steps.
	TransformMainClass string
	// TransformDeps make up the default transform runner, written into the cache.
	TransformDeps []ExternalDependency
	// ExtraOptions are appended to every rule of the given kind.
	ExtraOptions map[RuleKind][]string
}

// Project is the fully loaded project model.
type Project struct {
	Settings Settings
	Modules  []*Module
	// Sources are the files the project model was loaded from.
	Sources []string
}

// ResolvedScope holds the names a module uses to refer to one scope's dependencies.
type ResolvedScope struct {
	// Rules are fully qualified rule names.
	Rules []string
	// Resources are the resource rules of the Android modules the scope depends on.
	Resources []string
	// Files are repository-relative paths of cached artifacts consumed directly.
	Files []string
}

// ResolvedModule is a module with every scope turned into dependency names
// and its manifests merged.
type ResolvedModule struct {
	Module                  *Module
	Scopes                  map[ScopeName]ResolvedScope
	Manifest                MergedManifest
	InstrumentationManifest MergedManifest
}

// Scope returns the resolved scope, which is empty when the module has none.
func (r ResolvedModule) Scope(name ScopeName) ResolvedScope {
	return r.Scopes[name]
}
