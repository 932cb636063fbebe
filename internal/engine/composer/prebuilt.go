package composer

import (
	"cmp"
	"slices"

	"go.trai.ch/buckle/internal/core/domain"
)

// Prebuilt composes one prebuilt rule per dependency of a cache partition.
// deps must already exclude dependencies whose prebuilt rules are skipped.
func Prebuilt(deps []domain.ExternalDependency) []domain.Rule {
	sorted := slices.SortedFunc(slices.Values(deps), func(a, b domain.ExternalDependency) int {
		return cmp.Compare(a.DependencyFileName(), b.DependencyFileName())
	})

	rules := make([]domain.Rule, 0, len(sorted))
	for _, dep := range sorted {
		name := dep.DependencyFileName()

		if dep.PackagingOrDefault() == "aar" {
			rules = append(rules, domain.NewRule(domain.RuleAndroidPrebuiltAar, name, nil,
				domain.Attr{Key: "aar", Value: name},
				domain.Attr{Key: "source_jar", Value: sourceJar(dep)},
			))
			continue
		}

		rules = append(rules, domain.NewRule(domain.RulePrebuiltJar, name, nil,
			domain.Attr{Key: "binary_jar", Value: name},
			domain.Attr{Key: "source_jar", Value: sourceJar(dep)},
		))
	}
	return rules
}

func sourceJar(dep domain.ExternalDependency) string {
	if !dep.HasSources() {
		return ""
	}
	return dep.SourceFileName()
}
