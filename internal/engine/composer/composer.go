// Package composer turns resolved modules and cached dependencies into rule descriptions.
//
// Composers are pure: they never resolve dependencies or touch the file system,
// they only name what other stages have already resolved.
package composer

import (
	"path"
	"strings"

	"go.trai.ch/buckle/internal/core/domain"
)

// Module composes every rule of a resolved module, in a stable order.
func Module(rm domain.ResolvedModule, settings *domain.Settings) ([]domain.Rule, error) {
	m := rm.Module
	traits := m.Traits()

	var rules []domain.Rule
	appendRule := func(r *domain.Rule) {
		if r != nil {
			rules = append(rules, *r)
		}
	}

	if traits.ProducesResource {
		appendRule(Resource(rm))
	}
	if traits.Android {
		appendRule(AndroidBuildConfig(rm))
	}
	rules = append(rules, Library(rm))

	if traits.BinaryRule != "" {
		transform := TransformRule(m, settings)
		appendRule(transform)
		rules = append(rules, Binary(rm, transform, settings))
	}

	appendRule(UnitTest(rm, settings))

	if traits.Instrumentable {
		rules = append(rules, Instrumentation(rm)...)
	}

	if err := applyExtraOptions(rules, settings.ExtraOptions); err != nil {
		return nil, err
	}
	return rules, nil
}

// ManifestExport describes the file-exporting rule placed next to a generated manifest.
// It returns the rule file path and the rule, or false when nothing was written.
func ManifestExport(manifest domain.MergedManifest, buckFileName string) (string, domain.Rule, bool) {
	if !manifest.HasOutput() {
		return "", domain.Rule{}, false
	}
	name := path.Base(manifest.Path)
	r := domain.NewRule(domain.RuleExportFile, name, nil, domain.Attr{Key: "src", Value: name})
	return path.Join(path.Dir(manifest.Path), buckFileName), r, true
}

// relative rewrites a repository-relative path relative to the module's package.
func relative(m *domain.Module, p string) string {
	if m.Path == "" {
		return p
	}
	return strings.TrimPrefix(p, m.Path+"/")
}

// sourceGlob matches the sources of the module's languages under each root.
func sourceGlob(m *domain.Module, roots []string) domain.Glob {
	extensions := []string{"java"}
	if m.Kotlin {
		extensions = append(extensions, "kt")
	}

	var g domain.Glob
	for _, root := range roots {
		for _, ext := range extensions {
			g.Patterns = append(g.Patterns, path.Join(relative(m, root), "**", "*."+ext))
		}
	}
	return g
}

// resourceGlob matches every file under each root.
func resourceGlob(m *domain.Module, roots []string) domain.Glob {
	var g domain.Glob
	for _, root := range roots {
		g.Patterns = append(g.Patterns, path.Join(relative(m, root), "**"))
	}
	return g
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// targets returns the module-local rules followed by every rule of the given scopes.
func targets(rm domain.ResolvedModule, local []string, scopes ...domain.ScopeName) []string {
	deps := make([]string, 0, len(local))
	for _, name := range local {
		deps = append(deps, Local(name))
	}
	for _, scope := range scopes {
		resolved := rm.Scopes[scope]
		deps = append(deps, resolved.Rules...)
		deps = append(deps, resolved.Resources...)
	}
	return deps
}

func rulesOf(rm domain.ResolvedModule, scope domain.ScopeName) []string {
	return domain.SortedUnique(rm.Scopes[scope].Rules)
}

func kotlinOr(m *domain.Module, java, kotlin domain.RuleKind) domain.RuleKind {
	if m.Kotlin && kotlin != "" {
		return kotlin
	}
	return java
}
