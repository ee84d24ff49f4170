// Package report renders scan summaries, prompts and cleaning statistics.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfigureColor turns colored output off unless out is a terminal.
func ConfigureColor(out *os.File, disable bool) {
	if disable || !IsTerminal(out) {
		color.NoColor = true
	}
}

// Printer writes human-readable output.
type Printer struct {
	w       io.Writer
	verbose bool

	bold   *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

// NewPrinter creates a printer writing to w. Verbose output lists every
// candidate and every notice.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{
		w:       w,
		verbose: verbose,
		bold:    color.New(color.Bold),
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
	}
}

// Bytes formats a byte count the way every report line does.
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Summary prints the result of the scan phase.
func (p *Printer) Summary(s *domain.ScanSummary) {
	p.cyan.Fprintf(p.w, "\n=== Scan of %s ===\n", s.Config.RootPath)
	fmt.Fprintf(p.w, "Categories: %s\n", s.Config.Categories)

	if len(s.Candidates) == 0 {
		fmt.Fprintln(p.w, "\nNothing to clean.")
		p.noticeTally(s.Notices)
		return
	}

	if p.verbose {
		fmt.Fprintln(p.w)
		for _, c := range s.Candidates {
			fmt.Fprintf(p.w, "  %-18s %10s %8s files  %s\n",
				c.Category.DisplayName(),
				Bytes(c.SizeBytes),
				humanize.Comma(c.FileCount),
				c.Path)
		}
	} else {
		fmt.Fprintln(p.w)
		for _, line := range p.categoryLines(s.Candidates) {
			fmt.Fprintln(p.w, line)
		}
	}

	fmt.Fprintf(p.w, "\nFound ")
	p.bold.Fprintf(p.w, "%d", len(s.Candidates))
	fmt.Fprintf(p.w, " directories, ")
	p.bold.Fprintf(p.w, "%s", Bytes(s.TotalBytes))
	fmt.Fprintf(p.w, " in %s files (scanned in %s)\n",
		humanize.Comma(s.TotalFiles), s.Duration.Round(time.Millisecond))

	p.noticeTally(s.Notices)
}

func (p *Printer) categoryLines(candidates []domain.Candidate) []string {
	type agg struct {
		dirs  int
		bytes int64
	}
	totals := make(map[domain.Category]*agg)
	for _, c := range candidates {
		a, ok := totals[c.Category]
		if !ok {
			a = &agg{}
			totals[c.Category] = a
		}
		a.dirs++
		a.bytes += c.SizeBytes
	}

	var lines []string
	for _, cat := range domain.AllCategories() {
		if a, ok := totals[cat]; ok {
			lines = append(lines, fmt.Sprintf("  %-18s %4d dirs %10s", cat.DisplayName(), a.dirs, Bytes(a.bytes)))
		}
	}
	return lines
}

func (p *Printer) noticeTally(notices []domain.Notice) {
	if len(notices) == 0 {
		return
	}
	if !p.verbose {
		p.yellow.Fprintf(p.w, "%d paths could not be read (use --verbose for details)\n", len(notices))
		return
	}
	p.Notices(notices)
}

// Notices lists every advisory raised while scanning and sizing.
func (p *Printer) Notices(notices []domain.Notice) {
	if len(notices) == 0 {
		return
	}
	p.yellow.Fprintf(p.w, "\nWarnings (%d):\n", len(notices))
	for _, n := range notices {
		fmt.Fprintf(p.w, "  [%s] %v\n", n.Kind, n.Err)
	}
}

// Confirm asks whether to delete the summarized candidates. Only "y" or
// "yes" (any case) proceed; EOF or anything else declines.
func (p *Printer) Confirm(in io.Reader, s *domain.ScanSummary) bool {
	return p.ConfirmContext(context.Background(), in, s)
}

// ConfirmContext is Confirm that also declines as soon as ctx is done, even
// while the read is still blocked.
func (p *Printer) ConfirmContext(ctx context.Context, in io.Reader, s *domain.ScanSummary) bool {
	p.bold.Fprintf(p.w, "\nDelete %d directories (%s)? [y/N]: ", len(s.Candidates), Bytes(s.TotalBytes))

	answer := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			close(answer)
			return
		}
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.w)
		return false
	case line, ok := <-answer:
		if !ok {
			fmt.Fprintln(p.w)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// FreeSpace carries free-space readings around the delete phase.
type FreeSpace struct {
	Before, After uint64
	Known         bool
}

// Stats prints the outcome of the delete phase.
func (p *Printer) Stats(r *domain.CleanReport, free FreeSpace) {
	if r.DryRun {
		p.cyan.Fprintf(p.w, "\n=== Dry run: nothing deleted ===\n")
		fmt.Fprintf(p.w, "%d directories would be removed.\n", r.Count(domain.OutcomeSkipped))
		return
	}

	p.cyan.Fprintf(p.w, "\n=== Cleaning Statistics ===\n")

	byCategory := r.ByCategory()
	for _, cat := range domain.AllCategories() {
		s, ok := byCategory[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(p.w, "  %-18s %4d dirs %10s %8s files\n",
			cat.DisplayName(), s.Directories, Bytes(s.Bytes), humanize.Comma(s.Files))
	}

	fmt.Fprintf(p.w, "\nRemoved: ")
	p.green.Fprintf(p.w, "%d", r.Count(domain.OutcomeSuccess))
	fmt.Fprintf(p.w, " directories, %s freed, %s files\n",
		Bytes(r.BytesFreed()), humanize.Comma(r.FilesRemoved()))

	if n := r.Count(domain.OutcomeSkipped); n > 0 {
		fmt.Fprintf(p.w, "Skipped: ")
		p.yellow.Fprintf(p.w, "%d\n", n)
	}
	if n := r.Count(domain.OutcomeFailed); n > 0 {
		fmt.Fprintf(p.w, "Failed: ")
		p.red.Fprintf(p.w, "%d\n", n)
	}
	fmt.Fprintf(p.w, "Elapsed: %s\n", r.Elapsed.Round(time.Millisecond))

	if free.Known {
		fmt.Fprintf(p.w, "Free space: %s -> %s\n", humanize.IBytes(free.Before), humanize.IBytes(free.After))
	}

	p.problems(r)
}

func (p *Printer) problems(r *domain.CleanReport) {
	var lines []string
	for _, o := range r.Outcomes {
		switch o.Status {
		case domain.OutcomeFailed:
			lines = append(lines, p.red.Sprintf("  failed   %s: %v", o.Candidate.Path, o.Err))
		case domain.OutcomeSkipped:
			if p.verbose || o.Reason == domain.VerifyPermissionDenied.String() {
				lines = append(lines, p.yellow.Sprintf("  skipped  %s (%s)", o.Candidate.Path, o.Reason))
			}
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(p.w)
	for _, l := range lines {
		fmt.Fprintln(p.w, l)
	}
}

// Rules prints the marker rules in evaluation order.
func (p *Printer) Rules(rules []domain.MarkerRule) {
	p.cyan.Fprintf(p.w, "\n=== Cleanable Directories ===\n\n")
	for _, r := range rules {
		marker := r.RequiredParentMarker
		if marker == "" {
			marker = "(no marker needed)"
		}
		fmt.Fprintf(p.w, "  %-14s %-18s requires %s\n", r.DirectoryName, r.Category.DisplayName(), marker)
	}
	fmt.Fprintln(p.w, "\nRules are evaluated top to bottom; the first match wins.")
}
