package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// Pipeline runs the two phases of a clean: Discover (scan and size, read-only)
// and Execute (verify and delete). Confirmation happens between them, outside
// the pipeline.
type Pipeline struct {
	scanner domain.Scanner
	sizer   domain.Sizer
	cleaner domain.Cleaner
	logger  *zap.Logger
}

// NewPipeline wires the pipeline stages.
func NewPipeline(scanner domain.Scanner, sizer domain.Sizer, cleaner domain.Cleaner, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		scanner: scanner,
		sizer:   sizer,
		cleaner: cleaner,
		logger:  logger,
	}
}

// ValidateRoot rejects a root that does not exist or is not a directory.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidRoot, root)
		}
		return fmt.Errorf("failed to access root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrNotDirectory, root)
	}
	return nil
}

// Discover scans cfg.RootPath and sizes every candidate inline, in scan order.
// Only an invalid root is an error; everything else becomes a notice.
func (p *Pipeline) Discover(ctx context.Context, cfg domain.ScanConfig) (*domain.ScanSummary, error) {
	if err := ValidateRoot(cfg.RootPath); err != nil {
		return nil, err
	}

	start := time.Now()
	notices := &NoticeCollector{}
	summary := &domain.ScanSummary{Config: cfg}

	for c := range p.scanner.Scan(ctx, cfg, notices) {
		p.sizer.Size(ctx, &c, notices)
		summary.Candidates = append(summary.Candidates, c)
		summary.TotalBytes += c.SizeBytes
		summary.TotalFiles += c.FileCount
	}

	summary.Notices = notices.Notices()
	summary.Duration = time.Since(start)

	p.logger.Info("scan complete",
		zap.String("root", cfg.RootPath),
		zap.Int("candidates", len(summary.Candidates)),
		zap.Int64("bytes", summary.TotalBytes),
		zap.Int("notices", len(summary.Notices)),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// Execute runs the delete phase over a discovered summary. In dry-run mode
// nothing is verified or deleted and every candidate is skipped.
func (p *Pipeline) Execute(ctx context.Context, summary *domain.ScanSummary) *domain.CleanReport {
	start := time.Now()
	report := &domain.CleanReport{DryRun: summary.Config.DryRun}

	if summary.Config.DryRun {
		report.Outcomes = SkipAll(summary.Candidates, domain.ReasonDryRun)
	} else {
		report.Outcomes = p.cleaner.Clean(ctx, summary.Candidates)
	}
	report.Elapsed = time.Since(start)

	p.logger.Info("clean complete",
		zap.Bool("dry_run", report.DryRun),
		zap.Int("succeeded", report.Count(domain.OutcomeSuccess)),
		zap.Int("skipped", report.Count(domain.OutcomeSkipped)),
		zap.Int("failed", report.Count(domain.OutcomeFailed)),
		zap.Int64("bytes_freed", report.BytesFreed()),
		zap.Duration("elapsed", report.Elapsed))

	return report
}

// Run discovers and executes without a confirmation step.
func (p *Pipeline) Run(ctx context.Context, cfg domain.ScanConfig) (*domain.ScanSummary, *domain.CleanReport, error) {
	summary, err := p.Discover(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return summary, p.Execute(ctx, summary), nil
}
