package policy

import "github.com/eliteGoblin/devclean/internal/domain"

// PythonPolicy matches bytecode and tool caches. None of them needs a marker:
// the names are specific enough on their own.
type PythonPolicy struct{}

// NewPythonPolicy creates the Python policy.
func NewPythonPolicy() *PythonPolicy {
	return &PythonPolicy{}
}

func (p *PythonPolicy) ID() string {
	return "python"
}

func (p *PythonPolicy) Name() string {
	return "Python"
}

func (p *PythonPolicy) Category() domain.Category {
	return domain.CategoryPythonCache
}

func (p *PythonPolicy) Rules() []domain.MarkerRule {
	var rules []domain.MarkerRule
	for _, name := range []string{"__pycache__", ".pytest_cache", ".tox", ".mypy_cache"} {
		rules = append(rules, rulesFor(p.Category(), name)...)
	}
	return rules
}

// Ensure PythonPolicy implements EcosystemPolicy.
var _ EcosystemPolicy = (*PythonPolicy)(nil)
