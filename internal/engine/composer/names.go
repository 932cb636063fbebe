package composer

import "path"

// Rule name prefixes and suffixes.
const (
	srcPrefix             = "src_"
	binPrefix             = "bin_"
	testPrefix            = "test_"
	resPrefix             = "res_"
	buildConfigPrefix     = "build_config_"
	transformPrefix       = "transform_"
	instrumentationPrefix = "instrumentation_"
)

// Src returns the name of a module's library rule.
func Src(name string) string { return srcPrefix + name }

// Bin returns the name of a module's binary rule.
func Bin(name string) string { return binPrefix + name }

// Test returns the name of a module's unit test rule.
func Test(name string) string { return testPrefix + name }

// Res returns the name of a module's Android resource rule.
func Res(name string) string { return resPrefix + name }

// BuildConfig returns the name of a module's build config rule.
func BuildConfig(name string) string { return buildConfigPrefix + name }

// Transform returns the name of a module's bytecode transform rule.
func Transform(name string) string { return transformPrefix + name }

// InstrumentationLib returns the name of the library compiled from instrumentation sources.
func InstrumentationLib(name string) string { return instrumentationPrefix + name + "_lib" }

// InstrumentationApk returns the name of a module's instrumentation apk rule.
func InstrumentationApk(name string) string { return instrumentationPrefix + name + "_apk" }

// InstrumentationTest returns the name of a module's instrumentation test rule.
func InstrumentationTest(name string) string { return instrumentationPrefix + name + "_test" }

// Target returns the fully qualified name of rule in the package at pkg.
func Target(pkg, rule string) string {
	return "//" + pkg + ":" + rule
}

// Local returns the package-local name of rule.
func Local(rule string) string {
	return ":" + rule
}

// FileTarget returns the target of an exported file, given its repository-relative path.
func FileTarget(file string) string {
	return Target(path.Dir(file), path.Base(file))
}
