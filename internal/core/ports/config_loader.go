package ports

import "go.trai.ch/buckle/internal/core/domain"

// ProjectLoader defines the interface for loading the generator settings and project model.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load discovers buckle.yaml from cwd upwards and returns the project it describes.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd to find the directory containing buckle.yaml.
	DiscoverRoot(cwd string) (string, error)
}
