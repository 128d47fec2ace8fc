// Package observability provides formatted output for CLI results.
package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/refresh"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes human-readable or JSON results.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = logger.Truncate(line, boxWidth-7)
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// listLine renders up to limit names followed by a "+N more" suffix.
func listLine(names []string, limit int) string {
	if len(names) == 0 {
		return "-"
	}
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(names[:limit], ", "), len(names)-limit)
}

// PrintSkills outputs an extracted skill set grouped by category.
func (p *Printer) PrintSkills(set types.SkillSet) {
	var sb strings.Builder
	if set.Len() == 0 {
		sb.WriteString("No skills found\n")
	}
	for _, cat := range types.AllCategories {
		names := append([]string(nil), set.Categories[cat]...)
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		sb.WriteString(fmt.Sprintf("%s:\n", cat))
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  • %-20s %.2f\n", name, set.Confidence[name]))
		}
	}
	if err := set.Err(); err != nil {
		sb.WriteString(fmt.Sprintf("\nNote: %v\n", err))
	}
	p.printBox(fmt.Sprintf("SKILLS (%d)", set.Len()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatches outputs ranked score results, best first.
func (p *Printer) PrintMatches(results []types.ScoreResult) {
	if len(results) == 0 {
		p.printBox("TOP MATCHES", "No postings to match against")
		return
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s @ %s  [%.2f]\n", i+1, r.Title, r.Company, r.OverallScore))
		sb.WriteString(fmt.Sprintf("   lex %.2f  skill %.2f  exp %.2f", r.LexicalSimilarity, r.SkillSimilarity, r.ExperienceSimilarity))
		if r.SemanticSimilarity != nil {
			sb.WriteString(fmt.Sprintf("  sem %.2f", *r.SemanticSimilarity))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("   matching: %s\n", listLine(r.MatchingSkills, maxItemsToShow)))
		sb.WriteString(fmt.Sprintf("   missing:  %s\n", listLine(r.MissingSkills, maxItemsToShow)))
		if r.Notes != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", r.Notes))
		}
	}
	p.printBox(fmt.Sprintf("TOP %d MATCHES", len(results)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGap outputs a gap report.
func (p *Printer) PrintGap(title string, report types.GapReport) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match: %.2f%%\n\n", report.MatchPercentage))
	sb.WriteString(fmt.Sprintf("Matching (%d): %s\n", len(report.Matching), listLine(report.Matching, 10)))
	sb.WriteString(fmt.Sprintf("Missing (%d):  %s\n", len(report.Missing), listLine(report.Missing, 10)))
	sb.WriteString(fmt.Sprintf("Extra (%d):    %s", len(report.Extra), listLine(report.Extra, 10)))
	if len(report.Suggestions) > 0 {
		sb.WriteString(fmt.Sprintf("\nConsider:     %s", listLine(report.Suggestions, 8)))
	}

	if title == "" {
		title = "SKILL GAP"
	} else {
		title = "SKILL GAP: " + title
	}
	p.printBox(title, sb.String())
}

// PrintTrending outputs the most sighted skills.
func (p *Printer) PrintTrending(records []vocabulary.Record) {
	if len(records) == 0 {
		p.printBox("TRENDING SKILLS", "No skills sighted yet")
		return
	}

	var sb strings.Builder
	for i, rec := range records {
		sb.WriteString(fmt.Sprintf("%2d. %-22s %5d  %s\n", i+1, rec.Name, rec.Frequency, rec.Category))
	}
	p.printBox("TRENDING SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRefresh outputs a refresh summary.
func (p *Printer) PrintRefresh(report *refresh.Report) {
	if report == nil {
		return
	}
	if report.Skipped {
		p.printBox("REFRESH", fmt.Sprintf("Skipped: last refresh at %s", report.At.Format("2006-01-02 15:04")))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Postings: %d (added %d, replaced %d, skipped %d)\n",
		report.Postings, report.Ingest.Added, report.Ingest.Replaced, len(report.Ingest.Skipped)))
	sb.WriteString(fmt.Sprintf("Learned:  %s\n", listLine(report.Learned, maxItemsToShow)))
	sb.WriteString(fmt.Sprintf("Merged:   %s\n", listLine(report.Merged, maxItemsToShow)))
	sb.WriteString(fmt.Sprintf("Tagged:   %s\n", listLine(report.Tagged, maxItemsToShow)))
	if len(report.Failed) > 0 {
		names := make([]string, 0, len(report.Failed))
		for name := range report.Failed {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("Failed:\n")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", name, report.Failed[name]))
		}
	}
	p.printBox("REFRESH", strings.TrimSuffix(sb.String(), "\n"))
}
