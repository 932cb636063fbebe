package domain

import (
	"path"
	"strings"
)

// Kind tags a module with the behavior table used to compose its rules.
type Kind string

const (
	// KindJavaLibrary is a plain JVM library.
	KindJavaLibrary Kind = "java_library"
	// KindJavaApp is a JVM library with a runnable binary.
	KindJavaApp Kind = "java_app"
	// KindAndroidLibrary is an Android library variant.
	KindAndroidLibrary Kind = "android_library"
	// KindAndroidApp is an Android application variant.
	KindAndroidApp Kind = "android_app"
)

// KindTraits is the per-kind behavior table.
type KindTraits struct {
	Android          bool
	MergeType        MergeType
	LibraryRule      RuleKind
	KotlinLibrary    RuleKind
	BinaryRule       RuleKind
	TestRule         RuleKind
	KotlinTestRule   RuleKind
	Instrumentable   bool
	ProducesResource bool
}

var kindTraits = map[Kind]KindTraits{
	KindJavaLibrary: {
		LibraryRule:    RuleJavaLibrary,
		KotlinLibrary:  RuleKotlinLibrary,
		TestRule:       RuleJavaTest,
		KotlinTestRule: RuleKotlinTest,
	},
	KindJavaApp: {
		LibraryRule:    RuleJavaLibrary,
		KotlinLibrary:  RuleKotlinLibrary,
		BinaryRule:     RuleJavaBinary,
		TestRule:       RuleJavaTest,
		KotlinTestRule: RuleKotlinTest,
	},
	KindAndroidLibrary: {
		Android:          true,
		MergeType:        MergeTypeLibrary,
		LibraryRule:      RuleAndroidLibrary,
		KotlinLibrary:    RuleKotlinAndroidLibrary,
		TestRule:         RuleRobolectricTest,
		KotlinTestRule:   RuleKotlinRobolectricTest,
		ProducesResource: true,
	},
	KindAndroidApp: {
		Android:          true,
		MergeType:        MergeTypeApplication,
		LibraryRule:      RuleAndroidLibrary,
		KotlinLibrary:    RuleKotlinAndroidLibrary,
		BinaryRule:       RuleAndroidBinary,
		TestRule:         RuleRobolectricTest,
		KotlinTestRule:   RuleKotlinRobolectricTest,
		Instrumentable:   true,
		ProducesResource: true,
	},
}

// Traits returns the behavior table for the kind and whether the kind is known.
func (k Kind) Traits() (KindTraits, bool) {
	t, ok := kindTraits[k]
	return t, ok
}

// Valid reports whether the kind has a behavior table.
func (k Kind) Valid() bool {
	_, ok := kindTraits[k]
	return ok
}

// ScopeName names a dependency bucket of a module.
type ScopeName string

const (
	// ScopeMain holds compile and runtime dependencies.
	ScopeMain ScopeName = "main"
	// ScopeProvided holds compile-only dependencies.
	ScopeProvided ScopeName = "provided"
	// ScopeApt holds annotation processors.
	ScopeApt ScopeName = "apt"
	// ScopeTest holds unit test dependencies.
	ScopeTest ScopeName = "test"
	// ScopeInstrumentation holds instrumentation test dependencies.
	ScopeInstrumentation ScopeName = "instrumentation"
)

// ModuleRef points at another module variant of the project.
type ModuleRef struct {
	Path string
	Name string
}

// Scope is a named bucket of resolved dependencies owned by one module.
type Scope struct {
	Name     ScopeName
	External []ExternalDependency
	Targets  []ModuleRef
	// SkipPrebuilt marks external dependencies that this scope consumes as files
	// rather than through their prebuilt rules.
	SkipPrebuilt bool
}

// BuildConfigField is an extra constant exposed through the generated build config.
type BuildConfigField struct {
	Type  string
	Name  string
	Value string
}

// Transform configures a bytecode transform step run over a binary's inputs.
type Transform struct {
	Class      string
	ConfigFile string
}

// AppMetadata is the Android variant metadata of a module.
type AppMetadata struct {
	ApplicationID     string
	FlavorIDSuffix    string
	BuildTypeIDSuffix string
	VersionCode       int
	VersionName       string
	MinSDK            string
	TargetSDK         string
	Debuggable        bool
}

// ApplicationIDSuffix is the flavor suffix followed by the build type suffix.
func (m AppMetadata) ApplicationIDSuffix() string {
	return m.FlavorIDSuffix + m.BuildTypeIDSuffix
}

// BaseApplicationID returns the application id without the variant suffix.
func (m AppMetadata) BaseApplicationID() string {
	suffix := m.ApplicationIDSuffix()
	if suffix == "" {
		return m.ApplicationID
	}
	return strings.Replace(m.ApplicationID, suffix, "", 1)
}

// TestSources describes the unit test source set of a module.
type TestSources struct {
	Sources       []string
	JavaResources []string
}

// Instrumentation describes the instrumentation test source set of an Android app.
type Instrumentation struct {
	Manifests []string
	Sources   []string
}

// Module is one resolved variant of a project.
// It is immutable once loaded; derived manifest data is kept in a separate cache.
type Module struct {
	Path      string
	Name      string
	Kind      Kind
	Kotlin    bool
	Flavor    string
	BuildType string

	Sources       []string
	JavaResources []string
	Resources     []string
	Assets        []string
	Manifests     []string

	App               AppMetadata
	BuildConfigFields []BuildConfigField
	MainClass         string

	SourceCompatibility string
	TargetCompatibility string
	CompilerOptions     []string

	Scopes          map[ScopeName]Scope
	Test            *TestSources
	Instrumentation *Instrumentation
	Transforms      []Transform
}

// ModuleID identifies a module variant within the project.
type ModuleID string

// ID returns "path:name".
func (m *Module) ID() ModuleID {
	return ModuleID(m.Path + ":" + m.Name)
}

// Ref returns a reference to the module.
func (m *Module) Ref() ModuleRef {
	return ModuleRef{Path: m.Path, Name: m.Name}
}

// Traits returns the behavior table of the module's kind.
func (m *Module) Traits() KindTraits {
	t, _ := m.Kind.Traits()
	return t
}

// Scope returns the named scope, or an empty scope when the module has none.
func (m *Module) Scope(name ScopeName) Scope {
	if s, ok := m.Scopes[name]; ok {
		return s
	}
	return Scope{Name: name}
}

// HasTests reports whether the module has a non-empty unit test source set.
func (m *Module) HasTests() bool {
	return m.Test != nil && len(m.Test.Sources) > 0
}

// GenDir returns the directory that holds files generated for the module.
func (m *Module) GenDir(genRoot string) string {
	return path.Join(filepathToSlash(genRoot), strings.Trim(m.Path, "/"), m.Name)
}
