package ports

import "go.trai.ch/buckle/internal/core/domain"

// StateStore defines the interface for persisting the rule files written by a run.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Get retrieves the state of the last run under root.
	// Returns nil, nil if no state was recorded.
	Get(root string) (*domain.GenerationState, error)

	// Put stores the state of the current run under root.
	Put(root string, state domain.GenerationState) error
}
