package composer

import "go.trai.ch/buckle/internal/core/domain"

// UnitTest composes the unit test rule, or nil when the module has no test sources.
func UnitTest(rm domain.ResolvedModule, settings *domain.Settings) *domain.Rule {
	m := rm.Module
	if !m.HasTests() {
		return nil
	}
	traits := m.Traits()

	attrs := []domain.Attr{
		{Key: "srcs", Value: sourceGlob(m, m.Test.Sources)},
		{Key: "resources", Value: resourceGlob(m, m.Test.JavaResources)},
	}
	attrs = append(attrs, compileAttrs(rm)...)

	// Robolectric reads its runtime jars from the cache when the test scope skips prebuilts.
	if traits.Android && len(rm.Scopes[domain.ScopeTest].Files) > 0 {
		attrs = append(attrs, domain.Attr{
			Key:   "vm_args",
			Value: []string{"-Drobolectric.dependency.dir=" + domain.RuntimeDir(settings.CacheDir)},
		})
	}

	r := domain.NewRule(
		kotlinOr(m, traits.TestRule, traits.KotlinTestRule),
		Test(m.Name),
		targets(rm, []string{Src(m.Name)}, domain.ScopeMain, domain.ScopeTest),
		attrs...,
	)
	r.Labels = []string{"unit"}
	return &r
}
