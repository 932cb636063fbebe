// Package config loads the generator settings and the exported project model.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fsadapter "go.trai.ch/buckle/internal/adapters/fs"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ProjectLoader = (*Loader)(nil)

// Loader implements ports.ProjectLoader using YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// DiscoverRoot walks up from cwd to the directory that contains buckle.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	settingsPath, err := l.findSettings(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(settingsPath), nil
}

// Load discovers buckle.yaml from cwd upwards and returns the project it describes.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	settingsPath, err := l.findSettings(cwd)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(settingsPath)

	var settingsfile Settingsfile
	if err := readAndUnmarshalYAML(settingsPath, &settingsfile); err != nil {
		return nil, zerr.With(err, "path", settingsPath)
	}

	settings, err := buildSettings(root, &settingsfile)
	if err != nil {
		return nil, zerr.With(err, "path", settingsPath)
	}

	projectPath := resolvePath(root, settingsfile.Project, domain.ProjectFileName)
	if _, err := os.Stat(projectPath); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectModelNotFound.Error()), "path", projectPath)
	}

	var projectfile Projectfile
	if err := readAndUnmarshalYAML(projectPath, &projectfile); err != nil {
		return nil, zerr.With(err, "path", projectPath)
	}

	excluder, err := fsadapter.NewExcluder(settingsfile.Exclude)
	if err != nil {
		return nil, zerr.With(err, "path", settingsPath)
	}

	modules, err := l.buildModules(root, projectfile.Modules, excluder)
	if err != nil {
		return nil, zerr.With(err, "path", projectPath)
	}

	if err := checkTransforms(&settings, modules); err != nil {
		return nil, zerr.With(err, "path", projectPath)
	}

	return &domain.Project{
		Settings: settings,
		Modules:  modules,
		Sources:  []string{settingsPath, projectPath},
	}, nil
}

func (l *Loader) findSettings(cwd string) (string, error) {
	currentDir := cwd
	for {
		settingsPath := filepath.Join(currentDir, domain.SettingsFileName)
		if _, err := os.Stat(settingsPath); err == nil {
			return settingsPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func buildSettings(root string, dto *Settingsfile) (domain.Settings, error) {
	settings := domain.Settings{
		Root:               root,
		CacheDir:           cleanRelative(dto.CacheDir, domain.DefaultCacheDir()),
		GenDir:             cleanRelative(dto.GenDir, domain.DefaultGenDir()),
		BuckFileName:       dto.BuckFileName,
		Exclude:            dto.Exclude,
		TransformRunner:    dto.Transform.Runner,
		TransformMainClass: dto.Transform.MainClass,
		Policy: domain.DependencyPolicy{
			Versionless:    dto.ExternalDependencies.Versionless,
			AllowList:      dto.ExternalDependencies.AllowList,
			FailOnChanging: dto.ExternalDependencies.FailOnChangingDependencies,
		},
	}

	if settings.BuckFileName == "" {
		settings.BuckFileName = domain.DefaultBuckFileName
	}
	for _, ext := range dto.Transform.Dependencies {
		dep, err := parseExternal(root, ext)
		if err != nil {
			return domain.Settings{}, zerr.With(err, "setting", "transform.dependencies")
		}
		settings.TransformDeps = append(settings.TransformDeps, dep)
	}
	if settings.TransformRunner == "" && len(settings.TransformDeps) > 0 {
		settings.TransformRunner = domain.TransformRunnerRule(settings.CacheDir)
	}
	if settings.TransformMainClass == "" {
		settings.TransformMainClass = domain.DefaultTransformMainClass
	}

	for key := range settings.Policy.AllowList {
		if parts := strings.Split(key, ":"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return domain.Settings{}, zerr.With(domain.ErrInvalidCoordinates, "allow_list_key", key)
		}
	}

	if len(dto.ExtraOptions) > 0 {
		settings.ExtraOptions = make(map[domain.RuleKind][]string, len(dto.ExtraOptions))
		for kind, options := range dto.ExtraOptions {
			settings.ExtraOptions[domain.RuleKind(kind)] = options
		}
	}

	return settings, nil
}

func (l *Loader) buildModules(root string, dtos []ModuleDTO, excluder *fsadapter.Excluder) ([]*domain.Module, error) {
	// First pass: collect every declared module so references can be checked,
	// including references to excluded modules.
	declared := make(map[domain.ModuleID]bool, len(dtos))
	for i := range dtos {
		id := domain.ModuleID(dtos[i].Path + ":" + dtos[i].Name)
		if declared[id] {
			return nil, zerr.With(domain.ErrDuplicateModule, "module", string(id))
		}
		declared[id] = true
	}

	excluded := make(map[domain.ModuleID]bool)
	for i := range dtos {
		if excluder.Excluded(dtos[i].Path) {
			excluded[domain.ModuleID(dtos[i].Path+":"+dtos[i].Name)] = true
		}
	}

	modules := make([]*domain.Module, 0, len(dtos))
	for i := range dtos {
		dto := &dtos[i]
		id := domain.ModuleID(dto.Path + ":" + dto.Name)
		if excluded[id] {
			l.Logger.Debug(fmt.Sprintf("excluding module %s", id))
			continue
		}

		module, err := l.buildModule(root, dto, declared, excluded)
		if err != nil {
			return nil, zerr.With(err, "module", string(id))
		}
		modules = append(modules, module)
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].ID() < modules[j].ID() })
	return modules, nil
}

func (l *Loader) buildModule(
	root string,
	dto *ModuleDTO,
	declared, excluded map[domain.ModuleID]bool,
) (*domain.Module, error) {
	kind := domain.Kind(dto.Kind)
	if !kind.Valid() {
		return nil, zerr.With(domain.ErrInvalidModuleKind, "kind", dto.Kind)
	}
	if dto.Name == "" {
		return nil, zerr.With(domain.ErrInvalidModuleKind, "reason", "module name is empty")
	}

	module := &domain.Module{
		Path:                strings.Trim(filepath.ToSlash(dto.Path), "/"),
		Name:                dto.Name,
		Kind:                kind,
		Kotlin:              dto.Kotlin,
		Flavor:              dto.Flavor,
		BuildType:           dto.BuildType,
		Sources:             dto.Sources,
		JavaResources:       dto.JavaResources,
		Resources:           dto.Resources,
		Assets:              dto.Assets,
		Manifests:           l.existingFiles(root, dto.Manifests),
		MainClass:           dto.MainClass,
		SourceCompatibility: dto.SourceCompatibility,
		TargetCompatibility: dto.TargetCompatibility,
		CompilerOptions:     dto.CompilerOptions,
		App: domain.AppMetadata{
			ApplicationID:     dto.App.ApplicationID,
			FlavorIDSuffix:    dto.App.FlavorIDSuffix,
			BuildTypeIDSuffix: dto.App.BuildTypeIDSuffix,
			VersionCode:       dto.App.VersionCode,
			VersionName:       dto.App.VersionName,
			MinSDK:            dto.App.MinSDK,
			TargetSDK:         dto.App.TargetSDK,
			Debuggable:        dto.App.Debuggable,
		},
	}

	for _, f := range dto.BuildConfigFields {
		module.BuildConfigFields = append(module.BuildConfigFields, domain.BuildConfigField(f))
	}
	for _, t := range dto.Transforms {
		module.Transforms = append(module.Transforms, domain.Transform(t))
	}

	if dto.Test != nil {
		module.Test = &domain.TestSources{Sources: dto.Test.Sources, JavaResources: dto.Test.JavaResources}
	}
	if dto.Instrumentation != nil {
		module.Instrumentation = &domain.Instrumentation{
			Manifests: l.existingFiles(root, dto.Instrumentation.Manifests),
			Sources:   dto.Instrumentation.Sources,
		}
	}

	if len(dto.Scopes) > 0 {
		module.Scopes = make(map[domain.ScopeName]domain.Scope, len(dto.Scopes))
	}
	for name, scopeDTO := range dto.Scopes {
		scope, err := l.buildScope(root, domain.ScopeName(name), &scopeDTO, declared, excluded)
		if err != nil {
			return nil, zerr.With(err, "scope", name)
		}
		module.Scopes[scope.Name] = scope
	}

	return module, nil
}

func (l *Loader) buildScope(
	root string,
	name domain.ScopeName,
	dto *ScopeDTO,
	declared, excluded map[domain.ModuleID]bool,
) (domain.Scope, error) {
	scope := domain.Scope{Name: name, SkipPrebuilt: dto.SkipPrebuilt}

	for _, ext := range dto.External {
		dep, err := parseExternal(root, ext)
		if err != nil {
			return domain.Scope{}, err
		}
		scope.External = append(scope.External, dep)
	}

	for _, target := range dto.Targets {
		path, variant, ok := strings.Cut(target, ":")
		if !ok || variant == "" {
			return domain.Scope{}, zerr.With(domain.ErrUnknownModuleRef, "target", target)
		}
		id := domain.ModuleID(target)
		if !declared[id] {
			return domain.Scope{}, zerr.With(domain.ErrUnknownModuleRef, "target", target)
		}
		if excluded[id] {
			l.Logger.Warn(fmt.Sprintf("dropping reference to excluded module %s", target))
			continue
		}
		scope.Targets = append(scope.Targets, domain.ModuleRef{Path: path, Name: variant})
	}

	return scope, nil
}

func parseExternal(root string, ext ExternalDTO) (domain.ExternalDependency, error) {
	dep, err := domain.ParseCoordinates(ext.Coords)
	if err != nil {
		return domain.ExternalDependency{}, err
	}
	dep.ArtifactPath = resolvePath(root, ext.Artifact, "")
	dep.SourcesPath = resolvePath(root, ext.Sources, "")
	return dep, nil
}

// checkTransforms fails when a loaded module declares transforms that no runner can execute.
func checkTransforms(settings *domain.Settings, modules []*domain.Module) error {
	if settings.TransformRunner != "" {
		return nil
	}
	for _, m := range modules {
		if len(m.Transforms) > 0 && m.Traits().Android {
			return zerr.With(domain.ErrTransformRunnerUnset, "module", string(m.ID()))
		}
	}
	return nil
}

// existingFiles keeps the files that exist, relative to root, in their original
// order. Files listed more than once are kept once.
func (l *Loader) existingFiles(root string, files []string) []string {
	var kept []string
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		abs := resolvePath(root, f, "")
		if seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				l.Logger.Warn(fmt.Sprintf("skipping unreadable file %s: %v", f, err))
			}
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// resolvePath returns path made absolute against root, or fallback when path is empty.
func resolvePath(root, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func cleanRelative(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return filepath.Clean(path)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
