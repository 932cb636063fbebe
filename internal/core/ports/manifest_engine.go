package ports

import "go.trai.ch/buckle/internal/core/domain"

// ManifestMergeEngine defines the interface for reading, editing and merging Android manifests.
//
//go:generate mockgen -source=manifest_engine.go -destination=mocks/mock_manifest_engine.go -package=mocks
type ManifestMergeEngine interface {
	// Merge combines the primary manifest with the overlays, in order.
	// Placeholders are left untouched. Failures are reported as diagnostics in the result;
	// the error is reserved for unreadable inputs.
	Merge(primary string, overlays []string) (domain.MergeResult, error)

	// InjectSdk sets the min and target SDK versions on the first uses-sdk
	// element of document, creating the element when it is missing.
	InjectSdk(document []byte, minSdk, targetSdk string) ([]byte, error)

	// ReadPackage returns the package attribute of the manifest's root element.
	ReadPackage(path string) (string, error)
}
