// Package policy implements the Strategy pattern for ecosystem-specific cleaning rules.
// Each ecosystem (Node.js, Rust, Python, Java) has its own policy declaring which
// directory names are regenerable and which parent marker file proves it.
package policy

import (
	"github.com/eliteGoblin/devclean/internal/domain"
)

// EcosystemPolicy defines the strategy interface for one build ecosystem.
type EcosystemPolicy interface {
	// ID returns unique identifier (e.g., "node", "rust").
	ID() string

	// Name returns human-readable name for display.
	Name() string

	// Category returns the category every rule of this policy assigns.
	Category() domain.Category

	// Rules returns marker rules in evaluation order.
	Rules() []domain.MarkerRule
}

// rulesFor builds the rules assigning one category to a directory name,
// one rule per accepted marker. No markers means the name matches unconditionally.
func rulesFor(category domain.Category, dirName string, markers ...string) []domain.MarkerRule {
	if len(markers) == 0 {
		return []domain.MarkerRule{{DirectoryName: dirName, Category: category}}
	}
	rules := make([]domain.MarkerRule, 0, len(markers))
	for _, m := range markers {
		rules = append(rules, domain.MarkerRule{
			DirectoryName:        dirName,
			RequiredParentMarker: m,
			Category:             category,
		})
	}
	return rules
}
