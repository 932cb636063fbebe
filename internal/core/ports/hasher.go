package ports

// Hasher defines the interface for computing content fingerprints.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashBytes returns the fingerprint of data.
	HashBytes(data []byte) string

	// HashFile returns the fingerprint of a file's content.
	HashFile(path string) (string, error)

	// HashTree returns a fingerprint of every entry under root, including link targets.
	HashTree(root string) (string, error)
}
