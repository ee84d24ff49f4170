package policy

import "github.com/eliteGoblin/devclean/internal/domain"

// RustPolicy matches cargo build output.
type RustPolicy struct{}

// NewRustPolicy creates the Rust policy.
func NewRustPolicy() *RustPolicy {
	return &RustPolicy{}
}

func (p *RustPolicy) ID() string {
	return "rust"
}

func (p *RustPolicy) Name() string {
	return "Rust"
}

func (p *RustPolicy) Category() domain.Category {
	return domain.CategoryRustTarget
}

// Rules returns target guarded by Cargo.toml.
func (p *RustPolicy) Rules() []domain.MarkerRule {
	return rulesFor(p.Category(), "target", "Cargo.toml")
}

// Ensure RustPolicy implements EcosystemPolicy.
var _ EcosystemPolicy = (*RustPolicy)(nil)
