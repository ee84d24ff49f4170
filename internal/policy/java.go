package policy

import "github.com/eliteGoblin/devclean/internal/domain"

// JavaPolicy matches Maven and Gradle build output.
type JavaPolicy struct{}

// NewJavaPolicy creates the Java policy.
func NewJavaPolicy() *JavaPolicy {
	return &JavaPolicy{}
}

func (p *JavaPolicy) ID() string {
	return "java"
}

func (p *JavaPolicy) Name() string {
	return "Java"
}

func (p *JavaPolicy) Category() domain.Category {
	return domain.CategoryJavaBuild
}

// Rules returns Maven/Gradle target and Gradle build, in that order.
func (p *JavaPolicy) Rules() []domain.MarkerRule {
	rules := rulesFor(p.Category(), "target", "pom.xml", "build.gradle", "build.gradle.kts")
	return append(rules, rulesFor(p.Category(), "build", "build.gradle", "build.gradle.kts")...)
}

// Ensure JavaPolicy implements EcosystemPolicy.
var _ EcosystemPolicy = (*JavaPolicy)(nil)
