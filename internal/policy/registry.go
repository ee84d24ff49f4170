package policy

import (
	"github.com/eliteGoblin/devclean/internal/domain"
)

// Registry holds all ecosystem policies in evaluation order.
// Registration order is the tie-break between policies sharing a directory
// name: with the defaults, a target directory whose parent holds both
// Cargo.toml and pom.xml is classified as Rust.
type Registry struct {
	policies []EcosystemPolicy
	byID     map[string]EcosystemPolicy
	rules    []domain.MarkerRule
	byName   map[string][]domain.MarkerRule
}

var defaultRegistry = NewRegistryWithPolicies(
	NewNodePolicy(),
	NewRustPolicy(),
	NewPythonPolicy(),
	NewJavaPolicy(),
)

// NewRegistry returns the process-wide registry with all default policies.
// It is built once at package initialization and never mutated.
func NewRegistry() *Registry {
	return defaultRegistry
}

// NewRegistryWithPolicies creates a registry with custom policies (for testing).
func NewRegistryWithPolicies(policies ...EcosystemPolicy) *Registry {
	r := &Registry{
		byID:   make(map[string]EcosystemPolicy),
		byName: make(map[string][]domain.MarkerRule),
	}
	for _, p := range policies {
		r.register(p)
	}
	return r
}

func (r *Registry) register(p EcosystemPolicy) {
	r.policies = append(r.policies, p)
	r.byID[p.ID()] = p
	for _, rule := range p.Rules() {
		r.rules = append(r.rules, rule)
		r.byName[rule.DirectoryName] = append(r.byName[rule.DirectoryName], rule)
	}
}

// Get returns a policy by ID.
func (r *Registry) Get(id string) (EcosystemPolicy, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// GetAll returns all registered policies in evaluation order.
func (r *Registry) GetAll() []EcosystemPolicy {
	result := make([]EcosystemPolicy, len(r.policies))
	copy(result, r.policies)
	return result
}

// List returns all policy IDs.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.policies))
	for _, p := range r.policies {
		ids = append(ids, p.ID())
	}
	return ids
}

// RulesFor returns the rules for a directory name in evaluation order.
func (r *Registry) RulesFor(directoryName string) []domain.MarkerRule {
	rules := r.byName[directoryName]
	if len(rules) == 0 {
		return nil
	}
	result := make([]domain.MarkerRule, len(rules))
	copy(result, rules)
	return result
}

// Rules returns every rule in evaluation order.
func (r *Registry) Rules() []domain.MarkerRule {
	result := make([]domain.MarkerRule, len(r.rules))
	copy(result, r.rules)
	return result
}

// Ensure Registry implements domain.MarkerRegistry.
var _ domain.MarkerRegistry = (*Registry)(nil)
