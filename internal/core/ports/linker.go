package ports

// Linker defines the interface for placing artifacts into the dependency cache.
//
//go:generate mockgen -source=linker.go -destination=mocks/mock_linker.go -package=mocks
type Linker interface {
	// Link makes link point at target, replacing whatever exists at link.
	Link(target, link string) error
}
