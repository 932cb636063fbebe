package composer

import (
	"go.trai.ch/buckle/internal/core/domain"
)

// Library composes the main library rule of a module.
func Library(rm domain.ResolvedModule) domain.Rule {
	m := rm.Module
	traits := m.Traits()

	var local []string
	if traits.Android {
		if hasPackage(rm.Manifest) {
			if traits.ProducesResource {
				local = append(local, Res(m.Name))
			}
			local = append(local, BuildConfig(m.Name))
		}
	}

	attrs := []domain.Attr{
		{Key: "srcs", Value: sourceGlob(m, m.Sources)},
		{Key: "resources", Value: resourceGlob(m, m.JavaResources)},
	}
	if traits.Android && rm.Manifest.HasOutput() {
		attrs = append(attrs, domain.Attr{Key: "manifest", Value: FileTarget(rm.Manifest.Path)})
	}
	attrs = append(attrs, compileAttrs(rm)...)

	return domain.NewRule(
		kotlinOr(m, traits.LibraryRule, traits.KotlinLibrary),
		Src(m.Name),
		targets(rm, local, domain.ScopeMain),
		attrs...,
	)
}

// compileAttrs are shared by every rule that compiles module sources.
func compileAttrs(rm domain.ResolvedModule) []domain.Attr {
	m := rm.Module
	return []domain.Attr{
		{Key: "annotation_processor_deps", Value: rulesOf(rm, domain.ScopeApt)},
		{Key: "provided_deps", Value: rulesOf(rm, domain.ScopeProvided)},
		{Key: "source", Value: m.SourceCompatibility},
		{Key: "target", Value: m.TargetCompatibility},
		{Key: "extra_arguments", Value: FilterCompilerOptions(m.CompilerOptions)},
	}
}

func hasPackage(manifest domain.MergedManifest) bool {
	_, err := manifest.Package()
	return err == nil
}
