package domain

import (
	"slices"
	"sort"
)

// RuleKind is the Buck rule function a Rule renders to.
type RuleKind string

// Rule kinds emitted by the composers.
const (
	RuleJavaLibrary           RuleKind = "java_library"
	RuleKotlinLibrary         RuleKind = "kotlin_library"
	RuleAndroidLibrary        RuleKind = "android_library"
	RuleKotlinAndroidLibrary  RuleKind = "kotlin_android_library"
	RuleJavaBinary            RuleKind = "java_binary"
	RuleAndroidBinary         RuleKind = "android_binary"
	RuleJavaTest              RuleKind = "java_test"
	RuleKotlinTest            RuleKind = "kotlin_test"
	RuleRobolectricTest       RuleKind = "robolectric_test"
	RuleKotlinRobolectricTest RuleKind = "kotlin_robolectric_test"
	RuleInstrumentationApk    RuleKind = "android_instrumentation_apk"
	RuleInstrumentationTest   RuleKind = "android_instrumentation_test"
	RuleAndroidResource       RuleKind = "android_resource"
	RuleAndroidBuildConfig    RuleKind = "android_build_config"
	RulePrebuiltJar           RuleKind = "prebuilt_jar"
	RuleAndroidPrebuiltAar    RuleKind = "android_prebuilt_aar"
	RuleGenrule               RuleKind = "genrule"
	RuleExportFile            RuleKind = "export_file"
)

// KnownRuleKinds lists every rule kind the generator can emit.
var KnownRuleKinds = []RuleKind{
	RuleJavaLibrary,
	RuleKotlinLibrary,
	RuleAndroidLibrary,
	RuleKotlinAndroidLibrary,
	RuleJavaBinary,
	RuleAndroidBinary,
	RuleJavaTest,
	RuleKotlinTest,
	RuleRobolectricTest,
	RuleKotlinRobolectricTest,
	RuleInstrumentationApk,
	RuleInstrumentationTest,
	RuleAndroidResource,
	RuleAndroidBuildConfig,
	RulePrebuiltJar,
	RuleAndroidPrebuiltAar,
	RuleGenrule,
	RuleExportFile,
}

// VisibilityPublic makes a rule visible to every package.
const VisibilityPublic = "PUBLIC"

// Glob selects files by pattern, relative to the rule file's directory.
type Glob struct {
	Patterns []string
	Excludes []string
}

// Attr is a kind-specific rule attribute.
// Value holds a string, bool, int, []string, map[string]string or Glob.
type Attr struct {
	Key   string
	Value any
}

// Rule describes one build rule. It carries no reference to the module it came from.
type Rule struct {
	Kind       RuleKind
	Name       string
	Visibility []string
	Deps       []string
	Labels     []string
	Attrs      []Attr
	// ExtraOptions are "key = expression" lines rendered verbatim into the rule.
	ExtraOptions []string
}

// NewRule returns a public rule with sorted, deduplicated deps.
func NewRule(kind RuleKind, name string, deps []string, attrs ...Attr) Rule {
	return Rule{
		Kind:       kind,
		Name:       name,
		Visibility: []string{VisibilityPublic},
		Deps:       SortedUnique(deps),
		Attrs:      attrs,
	}
}

// Attr returns the value of the named attribute.
func (r Rule) Attr(key string) (any, bool) {
	for _, a := range r.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// SortedUnique returns a sorted copy of values without duplicates or empty strings.
func SortedUnique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}
