// Package observability provides Prometheus metrics for the service and
// formatted summaries for the CLI's verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, ending in "..." when cut.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, then a "... and N more" line.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintStatistics outputs the change statistics of a comparison.
func (p *Printer) PrintStatistics(stats *diff.Statistics) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total changes:  %d\n", stats.TotalChanges)
	fmt.Fprintf(&sb, "Words:          +%d / -%d (%s)\n", stats.WordsAdded, stats.WordsRemoved, stats.NetChangeDisplay)
	fmt.Fprintf(&sb, "Word count:     %d -> %d\n", stats.BeforeWordCount, stats.AfterWordCount)

	if len(stats.SectionsChanged) > 0 {
		sb.WriteString("\nSections changed:\n")
		writeList(&sb, stats.SectionsChanged, len(diff.SectionOrder))
	} else {
		sb.WriteString("\nNo sections changed\n")
	}

	p.printBox("COMPARISON STATISTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs a human-readable summary of an ATS result.
func (p *Printer) PrintScore(result *ats.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Score:  %d (%s risk)\n", result.Score, result.Risk)
	for _, c := range ats.Categories {
		cs, ok := result.Breakdown[c]
		if !ok || cs.Total == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-9s %s matched, score %d\n", c, cs.Coverage, cs.Score)
	}

	if len(result.MissingKeywords) > 0 {
		sb.WriteString("\nMissing required:\n")
		writeList(&sb, result.MissingKeywords, maxItemsToShow)
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "  ⚠ %s\n", w)
		}
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVersions outputs a resume's version history, newest last.
func (p *Printer) PrintVersions(resumeID string, metas []types.VersionMeta) {
	if len(metas) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Resume:  %s (%d versions)\n\n", resumeID, len(metas))
	for _, m := range metas {
		marker := " "
		if m.IsCurrent {
			marker = "*"
		}
		summary := m.ChangeSummary
		if summary == "" {
			summary = "(no summary)"
		}
		fmt.Fprintf(&sb, "%s v%-3d %s  %s\n", marker, m.VersionNumber, m.CreatedAt.Format("2006-01-02 15:04"), summary)
	}

	p.printBox("VERSION HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}
