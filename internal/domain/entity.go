// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies the ecosystem a build-artifact directory belongs to.
type Category string

const (
	CategoryNodeModules Category = "node_modules"
	CategoryRustTarget  Category = "rust_target"
	CategoryPythonCache Category = "python_cache"
	CategoryJavaBuild   Category = "java_build"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryNodeModules,
		CategoryRustTarget,
		CategoryPythonCache,
		CategoryJavaBuild,
	}
}

// DisplayName returns a human-readable label for reports.
func (c Category) DisplayName() string {
	switch c {
	case CategoryNodeModules:
		return "node_modules"
	case CategoryRustTarget:
		return "rust target"
	case CategoryPythonCache:
		return "python cache"
	case CategoryJavaBuild:
		return "java target/build"
	default:
		return string(c)
	}
}

// ParseCategories resolves CLI/config names (node, rust, python, java, all)
// into a filter. An empty input or "all" yields the unrestricted filter.
func ParseCategories(names []string) (CategoryFilter, error) {
	var filter CategoryFilter
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "", "all":
			return nil, nil
		case "node", "nodejs", "node_modules":
			filter = append(filter, CategoryNodeModules)
		case "rust", "cargo", "rust_target":
			filter = append(filter, CategoryRustTarget)
		case "python", "py", "python_cache":
			filter = append(filter, CategoryPythonCache)
		case "java", "maven", "gradle", "java_build":
			filter = append(filter, CategoryJavaBuild)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
		}
	}
	return filter, nil
}

// CategoryFilter restricts which categories a scan emits. Nil or empty means all.
type CategoryFilter []Category

// Allows reports whether c passes the filter.
func (f CategoryFilter) Allows(c Category) bool {
	if len(f) == 0 {
		return true
	}
	for _, allowed := range f {
		if allowed == c {
			return true
		}
	}
	return false
}

func (f CategoryFilter) String() string {
	if len(f) == 0 {
		return "all"
	}
	names := make([]string, len(f))
	for i, c := range f {
		names[i] = c.DisplayName()
	}
	return strings.Join(names, ", ")
}

// MarkerRule qualifies a directory name as cleanable when the marker file
// exists directly in its parent. An empty RequiredParentMarker matches unconditionally.
type MarkerRule struct {
	DirectoryName        string
	RequiredParentMarker string
	Category             Category
}

// NoDepthLimit disables the max depth constraint of a scan.
const NoDepthLimit = -1

// SkipNames are version-control internals that are never traversed.
var SkipNames = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// ScanConfig is the fully-resolved input of the pipeline.
// Symbolic links are never followed; there is no option to change that.
type ScanConfig struct {
	RootPath   string
	Categories CategoryFilter
	MaxDepth   int // NoDepthLimit or >= 0; entries directly under RootPath have depth 0
	DryRun     bool
	Workers    int // 0 = one per logical CPU, 1 = fully serial
}

// HasDepthLimit reports whether MaxDepth constrains the traversal.
func (c ScanConfig) HasDepthLimit() bool {
	return c.MaxDepth >= 0
}

// Candidate is one directory selected for possible deletion.
type Candidate struct {
	Path      string
	Category  Category
	Depth     int
	Sized     bool  // SizeBytes and FileCount are valid
	SizeBytes int64 // regular-file bytes
	FileCount int64 // regular files, directories excluded
	Writable  *bool // set by the verifier
}

// VerifyStatus is the verdict of the pre-deletion re-check.
type VerifyStatus int

const (
	VerifyConfirmed VerifyStatus = iota
	VerifyGone
	VerifyMismatched
	VerifyPermissionDenied
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyConfirmed:
		return "confirmed"
	case VerifyGone:
		return "gone"
	case VerifyMismatched:
		return "marker mismatch"
	case VerifyPermissionDenied:
		return "permission denied"
	default:
		return fmt.Sprintf("VerifyStatus(%d)", int(s))
	}
}

// OutcomeStatus classifies a DeletionOutcome.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Skip reasons that are not verification verdicts.
const (
	ReasonDryRun      = "dry-run"
	ReasonInterrupted = "interrupted"
)

// DeletionOutcome is the per-candidate result of the delete phase.
type DeletionOutcome struct {
	Candidate    Candidate
	Status       OutcomeStatus
	BytesFreed   int64  // Success, or partial progress of a Failed removal
	FilesRemoved int64  // Success, or partial progress of a Failed removal
	Reason       string // Skipped
	Err          error  // Failed
}

// NoticeKind classifies non-fatal advisories raised while scanning and sizing.
type NoticeKind string

const (
	NoticeTraversal NoticeKind = "traversal"
	NoticeSizing    NoticeKind = "sizing"
)

// Notice is an advisory surfaced to the reporting collaborator.
type Notice struct {
	Kind NoticeKind
	Path string
	Err  error
}

// ScanSummary is handed to the confirmation collaborator after scan+size.
type ScanSummary struct {
	Config     ScanConfig
	Candidates []Candidate
	Notices    []Notice
	TotalBytes int64
	TotalFiles int64
	Duration   time.Duration
}

// CategoryStats aggregates successful removals of one category.
type CategoryStats struct {
	Directories int
	Bytes       int64
	Files       int64
}

// CleanReport is handed to the statistics collaborator after the delete phase.
type CleanReport struct {
	Outcomes []DeletionOutcome
	Elapsed  time.Duration
	DryRun   bool
}

// BytesFreed sums successful outcomes only.
func (r *CleanReport) BytesFreed() int64 {
	var total int64
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			total += o.BytesFreed
		}
	}
	return total
}

// FilesRemoved sums successful outcomes only.
func (r *CleanReport) FilesRemoved() int64 {
	var total int64
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			total += o.FilesRemoved
		}
	}
	return total
}

// Count returns how many outcomes have the given status.
func (r *CleanReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// ByCategory breaks successful removals down per category.
func (r *CleanReport) ByCategory() map[Category]CategoryStats {
	stats := make(map[Category]CategoryStats)
	for _, o := range r.Outcomes {
		if o.Status != OutcomeSuccess {
			continue
		}
		s := stats[o.Candidate.Category]
		s.Directories++
		s.Bytes += o.BytesFreed
		s.Files += o.FilesRemoved
		stats[o.Candidate.Category] = s
	}
	return stats
}
