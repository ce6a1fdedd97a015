// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/job-match-engine/internal/types"
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
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintUserProfile outputs a human-readable summary of a derived profile.
func (p *Printer) PrintUserProfile(profile *types.UserProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:         %s\n", profile.UserID))
	sb.WriteString(fmt.Sprintf("Applications: %d", profile.ApplicationCount))
	if profile.IsInitial {
		sb.WriteString("  (initial)")
	}
	sb.WriteString("\n")
	if profile.HomeRegion != "" {
		sb.WriteString(fmt.Sprintf("Home region:  %s\n", profile.HomeRegion))
	}
	if profile.SalaryBand != nil {
		sb.WriteString(fmt.Sprintf("Salary band:  %d - %d\n", profile.SalaryBand.Min, profile.SalaryBand.Max))
	}
	sb.WriteString("\n")
	writeWeights(&sb, "Regions", profile.RegionWeights)
	writeWeights(&sb, "Occupations", profile.OccupationWeights)
	writeWeights(&sb, "Features", profile.FeatureWeights)

	p.printBox("USER PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobScore outputs the component breakdown of one base score.
func (p *Printer) PrintJobScore(score *types.JobScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job: %s\n\n", score.JobID))
	sb.WriteString(fmt.Sprintf("Keyword:    %6.1f\n", score.Keyword))
	sb.WriteString(fmt.Sprintf("Feature:    %6.1f\n", score.Feature))
	sb.WriteString(fmt.Sprintf("Salary:     %6.1f\n", score.Salary))
	sb.WriteString(fmt.Sprintf("Freshness:  %6.1f\n", score.Freshness))
	sb.WriteString(fmt.Sprintf("Location:   %6.1f\n", score.Location))
	sb.WriteString(fmt.Sprintf("Company:    %6.1f\n", score.Company))
	sb.WriteString(fmt.Sprintf("Boost:      %6.2fx\n", score.Boost))
	sb.WriteString(fmt.Sprintf("\nFinal:      %d", score.Final))

	p.printBox("BASE SCORE", sb.String())
}

// PrintSelectionResult outputs a user's final selection grouped by section.
func (p *Printer) PrintSelectionResult(result *types.SelectionResult) {
	if result == nil || len(result.Jobs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User: %s    Selected: %d\n", result.UserID, len(result.Jobs)))

	sections := result.SectionJobs()
	for _, section := range []types.Section{types.SectionTopPicks, types.SectionRegion, types.SectionLocality, types.SectionDeals} {
		jobIDs := sections[section]
		if len(jobIDs) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", section, len(jobIDs)))
		count := min(len(jobIDs), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", jobIDs[i]))
		}
		if len(jobIDs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jobIDs)-maxItemsToShow))
		}
	}

	p.printBox("SELECTION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// writeWeights appends the top weights of one signal, highest first.
func writeWeights(sb *strings.Builder, label string, weights map[string]float64) {
	if len(weights) == 0 {
		return
	}

	type entry struct {
		key    string
		weight float64
	}
	entries := make([]entry, 0, len(weights))
	for k, w := range weights {
		entries = append(entries, entry{k, w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].key < entries[j].key
	})

	sb.WriteString(fmt.Sprintf("%s:\n", label))
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %-12s %.2f\n", entries[i].key, entries[i].weight))
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(entries)-maxItemsToShow))
	}
}
