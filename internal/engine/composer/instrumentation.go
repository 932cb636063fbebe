package composer

import (
	"go.trai.ch/buckle/internal/core/domain"
)

// Instrumentation composes the instrumentation rules of an Android app. It
// returns nil when the module has no instrumentation manifest.
func Instrumentation(rm domain.ResolvedModule) []domain.Rule {
	m := rm.Module
	if m.Instrumentation == nil || len(m.Instrumentation.Manifests) == 0 || !rm.InstrumentationManifest.HasOutput() {
		return nil
	}

	manifest := domain.Attr{Key: "manifest", Value: FileTarget(rm.InstrumentationManifest.Path)}

	var rules []domain.Rule
	deps := targets(rm, nil, domain.ScopeInstrumentation)

	if len(m.Instrumentation.Sources) > 0 {
		rules = append(rules, domain.NewRule(
			kotlinOr(m, domain.RuleAndroidLibrary, domain.RuleKotlinAndroidLibrary),
			InstrumentationLib(m.Name),
			append([]string{Local(Src(m.Name))}, deps...),
			domain.Attr{Key: "srcs", Value: sourceGlob(m, m.Instrumentation.Sources)},
			manifest,
		))
		deps = []string{Local(InstrumentationLib(m.Name))}
	}

	rules = append(rules,
		domain.NewRule(domain.RuleInstrumentationApk, InstrumentationApk(m.Name), deps,
			manifest,
			domain.Attr{Key: "apk", Value: Local(Bin(m.Name))},
		),
		domain.NewRule(domain.RuleInstrumentationTest, InstrumentationTest(m.Name), nil,
			domain.Attr{Key: "apk", Value: Local(InstrumentationApk(m.Name))},
		),
	)
	return rules
}
