package policy

import "github.com/eliteGoblin/devclean/internal/domain"

// NodePolicy matches npm/yarn/pnpm package caches.
type NodePolicy struct{}

// NewNodePolicy creates the Node.js policy.
func NewNodePolicy() *NodePolicy {
	return &NodePolicy{}
}

func (p *NodePolicy) ID() string {
	return "node"
}

func (p *NodePolicy) Name() string {
	return "Node.js"
}

func (p *NodePolicy) Category() domain.Category {
	return domain.CategoryNodeModules
}

// Rules returns node_modules guarded by package.json.
func (p *NodePolicy) Rules() []domain.MarkerRule {
	return rulesFor(p.Category(), "node_modules", "package.json")
}

// Ensure NodePolicy implements EcosystemPolicy.
var _ EcosystemPolicy = (*NodePolicy)(nil)
