package domain

import "path/filepath"

const (
	// BuckleDirName is the name of the internal workspace directory.
	BuckleDirName = ".buckle"

	// StateDirName is the name of the generation state directory.
	StateDirName = "state"

	// ExtDirName is the name of the external dependency cache directory.
	ExtDirName = "ext"

	// GenDirName is the name of the generated sources directory.
	GenDirName = "gen"

	// SettingsFileName is the name of the generator settings file.
	SettingsFileName = "buckle.yaml"

	// ProjectFileName is the name of the exported project model.
	ProjectFileName = "buckle.project.yaml"

	// DefaultBuckFileName is the default name of rule files.
	DefaultBuckFileName = "BUCK"

	// ManifestFileName is the name of Android manifests.
	ManifestFileName = "AndroidManifest.xml"

	// TransformDirName is the cache subdirectory that holds the transform runner.
	TransformDirName = "transform"

	// RuntimeDirName is the cache subdirectory that gathers the artifacts tests consume as files.
	RuntimeDirName = "robolectric"

	// TransformRuleName is the rule that provides the transform runner jar.
	TransformRuleName = "transform_cli"

	// DefaultTransformMainClass is the entry point of the transform runner.
	DefaultTransformMainClass = "com.uber.okbuck.transform.CliTransform"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheDir returns the default external dependency cache, relative to the root.
// It joins .buckle and ext.
func DefaultCacheDir() string {
	return filepath.Join(BuckleDirName, ExtDirName)
}

// DefaultGenDir returns the default directory for generated files.
// It joins .buckle and gen.
func DefaultGenDir() string {
	return filepath.Join(BuckleDirName, GenDirName)
}

// DefaultStatePath returns the path of the generation state store.
// It joins .buckle and state.
func DefaultStatePath() string {
	return filepath.Join(BuckleDirName, StateDirName)
}

// TransformRunnerRule returns the rule providing the transform runner for a cache directory.
func TransformRunnerRule(cacheDir string) string {
	return "//" + filepathToSlash(filepath.Join(cacheDir, TransformDirName)) + ":" + TransformRuleName
}
