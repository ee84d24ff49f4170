// Package usecase contains application business logic.
package usecase

import (
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// DefaultMarkerCacheSize bounds the per-scan marker lookup cache.
const DefaultMarkerCacheSize = 4096

// MarkerClassifier implements domain.Classifier by evaluating registry rules
// in order against marker files in the parent directory.
type MarkerClassifier struct {
	registry  domain.MarkerRegistry
	fsManager domain.FileSystemManager
	cache     *lru.Cache[string, bool]
	logger    *zap.Logger
}

// NewClassifier creates a classifier that always consults the live filesystem.
func NewClassifier(registry domain.MarkerRegistry, fs domain.FileSystemManager, logger *zap.Logger) *MarkerClassifier {
	return &MarkerClassifier{
		registry:  registry,
		fsManager: fs,
		logger:    logger,
	}
}

// NewCachingClassifier creates a classifier that memoizes marker lookups.
// Only use it for the lifetime of a single scan; the verifier must not share it.
func NewCachingClassifier(registry domain.MarkerRegistry, fs domain.FileSystemManager, size int, logger *zap.Logger) (*MarkerClassifier, error) {
	cache, err := lru.New[string, bool](size)
	if err != nil {
		return nil, err
	}
	c := NewClassifier(registry, fs, logger)
	c.cache = cache
	return c, nil
}

// Classify returns the category of the first rule for name whose marker is
// present directly inside parentPath.
func (c *MarkerClassifier) Classify(name, parentPath string) (domain.Category, bool) {
	for _, rule := range c.registry.RulesFor(name) {
		if rule.RequiredParentMarker == "" || c.hasMarker(parentPath, rule.RequiredParentMarker) {
			c.logger.Debug("classified directory",
				zap.String("path", filepath.Join(parentPath, name)),
				zap.String("category", string(rule.Category)),
				zap.String("marker", rule.RequiredParentMarker))
			return rule.Category, true
		}
	}
	return "", false
}

// hasMarker reports whether parent contains an entry called marker that
// resolves to something other than a directory. Dangling links do not count.
func (c *MarkerClassifier) hasMarker(parent, marker string) bool {
	path := filepath.Join(parent, marker)
	if c.cache != nil {
		if found, ok := c.cache.Get(path); ok {
			return found
		}
	}

	info, err := c.fsManager.Stat(path)
	found := err == nil && !info.IsDir()

	if c.cache != nil {
		c.cache.Add(path, found)
	}
	return found
}

// Ensure MarkerClassifier implements domain.Classifier.
var _ domain.Classifier = (*MarkerClassifier)(nil)
