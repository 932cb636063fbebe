package config

// Settingsfile represents the structure of the buckle.yaml settings file.
type Settingsfile struct {
	Version              string                  `yaml:"version"`
	CacheDir             string                  `yaml:"cacheDir"`
	GenDir               string                  `yaml:"genDir"`
	BuckFileName         string                  `yaml:"buckFileName"`
	Project              string                  `yaml:"project"`
	ExternalDependencies ExternalDependenciesDTO `yaml:"externalDependencies"`
	Exclude              []string                `yaml:"exclude"`
	Transform            TransformSettingsDTO    `yaml:"transform"`
	ExtraOptions         map[string][]string     `yaml:"extraOptions"`
}

// ExternalDependenciesDTO holds the external dependency policy.
type ExternalDependenciesDTO struct {
	Versionless                bool                `yaml:"versionless"`
	AllowList                  map[string][]string `yaml:"allowList"`
	FailOnChangingDependencies bool                `yaml:"failOnChangingDependencies"`
}

// TransformSettingsDTO configures the bytecode transform runner.
type TransformSettingsDTO struct {
	Runner       string        `yaml:"runner"`
	MainClass    string        `yaml:"mainClass"`
	Dependencies []ExternalDTO `yaml:"dependencies"`
}

// Projectfile represents the structure of the exported project model.
type Projectfile struct {
	Version string      `yaml:"version"`
	Modules []ModuleDTO `yaml:"modules"`
}

// ModuleDTO represents one module variant in the project model.
type ModuleDTO struct {
	Path      string `yaml:"path"`
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Kotlin    bool   `yaml:"kotlin"`
	Flavor    string `yaml:"flavor"`
	BuildType string `yaml:"buildType"`

	Sources       []string `yaml:"sources"`
	JavaResources []string `yaml:"javaResources"`
	Resources     []string `yaml:"resources"`
	Assets        []string `yaml:"assets"`
	Manifests     []string `yaml:"manifests"`

	App               AppDTO                `yaml:"app"`
	BuildConfigFields []BuildConfigFieldDTO `yaml:"buildConfigFields"`
	MainClass         string                `yaml:"mainClass"`

	SourceCompatibility string   `yaml:"sourceCompatibility"`
	TargetCompatibility string   `yaml:"targetCompatibility"`
	CompilerOptions     []string `yaml:"compilerOptions"`

	Scopes          map[string]ScopeDTO `yaml:"scopes"`
	Test            *TestDTO            `yaml:"test"`
	Instrumentation *InstrumentationDTO `yaml:"instrumentation"`
	Transforms      []TransformDTO      `yaml:"transforms"`
}

// AppDTO holds Android variant metadata.
type AppDTO struct {
	ApplicationID     string `yaml:"applicationId"`
	FlavorIDSuffix    string `yaml:"flavorIdSuffix"`
	BuildTypeIDSuffix string `yaml:"buildTypeIdSuffix"`
	VersionCode       int    `yaml:"versionCode"`
	VersionName       string `yaml:"versionName"`
	MinSDK            string `yaml:"minSdk"`
	TargetSDK         string `yaml:"targetSdk"`
	Debuggable        bool   `yaml:"debuggable"`
}

// BuildConfigFieldDTO is an extra build config constant.
type BuildConfigFieldDTO struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ScopeDTO is a dependency bucket of a module.
type ScopeDTO struct {
	SkipPrebuilt bool          `yaml:"skipPrebuilt"`
	External     []ExternalDTO `yaml:"external"`
	Targets      []string      `yaml:"targets"`
}

// ExternalDTO is a resolved external dependency.
type ExternalDTO struct {
	Coords   string `yaml:"coords"`
	Artifact string `yaml:"artifact"`
	Sources  string `yaml:"sources"`
}

// TestDTO is the unit test source set of a module.
type TestDTO struct {
	Sources       []string `yaml:"sources"`
	JavaResources []string `yaml:"javaResources"`
}

// InstrumentationDTO is the instrumentation test source set of an Android app.
type InstrumentationDTO struct {
	Manifests []string `yaml:"manifests"`
	Sources   []string `yaml:"sources"`
}

// TransformDTO configures one bytecode transform.
type TransformDTO struct {
	Class      string `yaml:"class"`
	ConfigFile string `yaml:"configFile"`
}
