package ports

import "go.trai.ch/buckle/internal/core/domain"

// RuleWriter defines the interface for rendering rules into the target build tool's dialect.
//
//go:generate mockgen -source=rule_writer.go -destination=mocks/mock_rule_writer.go -package=mocks
type RuleWriter interface {
	// Render returns the rule file content for rules.
	Render(rules []domain.Rule) ([]byte, error)

	// Write renders rules and writes them to path.
	Write(path string, rules []domain.Rule) error
}
