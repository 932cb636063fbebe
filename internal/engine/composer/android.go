package composer

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"go.trai.ch/buckle/internal/core/domain"
)

// Resource composes the Android resource rule. A module without a manifest
// has no package and therefore no resource rule.
func Resource(rm domain.ResolvedModule) *domain.Rule {
	m := rm.Module
	pkg, err := rm.Manifest.Package()
	if err != nil {
		return nil
	}

	var res, assets string
	if dir := first(m.Resources); dir != "" {
		res = relative(m, dir)
	}
	if dir := first(m.Assets); dir != "" {
		assets = relative(m, dir)
	}

	r := domain.NewRule(domain.RuleAndroidResource, Res(m.Name),
		rm.Scopes[domain.ScopeMain].Resources,
		domain.Attr{Key: "package", Value: pkg},
		domain.Attr{Key: "res", Value: res},
		domain.Attr{Key: "assets", Value: assets},
	)
	return &r
}

// AndroidBuildConfig composes the build config rule, or nil when the package is unknown.
func AndroidBuildConfig(rm domain.ResolvedModule) *domain.Rule {
	pkg, err := rm.Manifest.Package()
	if err != nil {
		return nil
	}

	r := domain.NewRule(domain.RuleAndroidBuildConfig, BuildConfig(rm.Module.Name), nil,
		domain.Attr{Key: "package", Value: pkg},
		domain.Attr{Key: "values", Value: BuildConfigFields(rm.Module)},
	)
	return &r
}

// BuildConfigFields renders the build config constants of a module: the
// application id, build type, flavor and version, followed by the extra
// fields sorted by name.
func BuildConfigFields(m *domain.Module) []string {
	app := m.App
	fields := []string{
		fmt.Sprintf("String APPLICATION_ID = %q", app.BaseApplicationID()+app.ApplicationIDSuffix()),
		fmt.Sprintf("String BUILD_TYPE = %q", m.BuildType),
		fmt.Sprintf("String FLAVOR = %q", m.Flavor),
	}
	if app.VersionCode != 0 {
		fields = append(fields, "int VERSION_CODE = "+strconv.Itoa(app.VersionCode))
	}
	if app.VersionName != "" {
		fields = append(fields, fmt.Sprintf("String VERSION_NAME = %q", app.VersionName))
	}

	// Later declarations of a name override earlier ones.
	extra := make(map[string]domain.BuildConfigField, len(m.BuildConfigFields))
	for _, f := range m.BuildConfigFields {
		extra[f.Name] = f
	}
	for _, name := range slices.Sorted(maps.Keys(extra)) {
		f := extra[name]
		fields = append(fields, fmt.Sprintf("%s %s = %s", f.Type, f.Name, f.Value))
	}
	return fields
}
