package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidCoordinates is returned when a dependency coordinate string is malformed.
	ErrInvalidCoordinates = zerr.New("invalid dependency coordinates, expected group:artifact:version[:classifier][@packaging]")

	// ErrVersionConflict is returned when dependency versions violate the single version policy.
	ErrVersionConflict = zerr.New("external dependency version validation failed")

	// ErrChangingDependency is returned when changing versions are used and the policy forbids them.
	ErrChangingDependency = zerr.New("Please do not use changing dependencies. They can cause hard to reproduce builds.")

	// ErrManagerFinalized is returned when a dependency is recorded after finalization.
	ErrManagerFinalized = zerr.New("dependency manager already finalized")

	// ErrCacheDeleteFailed is returned when the dependency cache directory cannot be deleted.
	ErrCacheDeleteFailed = zerr.New("could not delete dependency directory")

	// ErrCacheCreateFailed is returned when a dependency cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("could not create dependency directory")

	// ErrSymlinkFailed is returned when an artifact link cannot be created.
	ErrSymlinkFailed = zerr.New("failed to link artifact into cache")

	// ErrRuleFileWriteFailed is returned when a rule file cannot be written.
	ErrRuleFileWriteFailed = zerr.New("failed to write rule file")

	// ErrRuleFileReadFailed is returned when a rule file cannot be read back.
	ErrRuleFileReadFailed = zerr.New("failed to read rule file")

	// ErrDuplicateRule is returned when a rule file declares the same name twice.
	ErrDuplicateRule = zerr.New("duplicate rule name")

	// ErrInvalidExtraOption is returned when an extra option is not a valid "key = expression" line.
	ErrInvalidExtraOption = zerr.New("invalid extra option")

	// ErrMissingSdk is returned when an Android module lacks min or target SDK versions.
	ErrMissingSdk = zerr.New("must specify minSdkVersion and targetSdkVersion")

	// ErrManifestMergeFailed is returned when the merge engine reports errors.
	ErrManifestMergeFailed = zerr.New("manifest merge failed")

	// ErrManifestParseFailed is returned when a manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrManifestWriteFailed is returned when the merged manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write merged manifest")

	// ErrPackageUnset is returned when the package of a module without manifests is requested.
	ErrPackageUnset = zerr.New("module has no manifest, package name is unset")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when buckle.yaml cannot be found.
	ErrConfigNotFound = zerr.New("could not find buckle.yaml")

	// ErrProjectModelNotFound is returned when the exported project model is missing.
	ErrProjectModelNotFound = zerr.New("could not find project model export")

	// ErrInvalidModuleKind is returned when a module declares an unknown kind.
	ErrInvalidModuleKind = zerr.New("invalid module kind")

	// ErrDuplicateModule is returned when two modules share a path and name.
	ErrDuplicateModule = zerr.New("duplicate module")

	// ErrUnknownModuleRef is returned when a scope references a module that does not exist.
	ErrUnknownModuleRef = zerr.New("scope references unknown module")

	// ErrModuleCycle is returned when modules depend on each other in a cycle.
	ErrModuleCycle = zerr.New("module dependency cycle detected")

	// ErrTransformRunnerUnset is returned when modules declare transforms but no runner is configured.
	ErrTransformRunnerUnset = zerr.New("transforms require transform.runner or transform.dependencies")

	// ErrInvalidExcludePattern is returned when an exclude pattern cannot be compiled.
	ErrInvalidExcludePattern = zerr.New("invalid exclude pattern")

	// ErrStoreCreateFailed is returned when the state store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create state store directory")

	// ErrStoreReadFailed is returned when generation state cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read generation state")

	// ErrStoreUnmarshalFailed is returned when generation state cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal generation state")

	// ErrStoreMarshalFailed is returned when generation state cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal generation state")

	// ErrStoreWriteFailed is returned when generation state cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write generation state")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrGenerationFailed is returned when generation aborts.
	ErrGenerationFailed = zerr.New("rule generation failed")

	// ErrStaleRuleRemoveFailed is returned when a stale rule file cannot be removed.
	ErrStaleRuleRemoveFailed = zerr.New("failed to remove stale rule file")
)
