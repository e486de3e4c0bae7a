// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-parser/internal/profile"
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

// PrintExtraction outputs a summary of the text extraction step.
func (p *Printer) PrintExtraction(filename string, textLen int) {
	content := fmt.Sprintf("File:     %s\nText:     %d characters", filename, textLen)
	p.printBox("TEXT EXTRACTION", content)
}

// PrintProfile outputs a human-readable summary of the extracted profile.
func (p *Printer) PrintProfile(prof *profile.CandidateProfile) {
	if prof == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", orUnknown(prof.FullName)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orUnknown(prof.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orUnknown(prof.Phone)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orUnknown(prof.Location)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(prof.Skills)))
	for i, skill := range prof.Skills {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prof.Skills)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", skill))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(prof.Experience)))
	for i, exp := range prof.Experience {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prof.Experience)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s @ %s\n", orUnknown(exp.Title), orUnknown(exp.Company)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Education (%d):\n", len(prof.Education)))
	for i, edu := range prof.Education {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prof.Education)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s, %s\n", orUnknown(edu.Degree), orUnknown(edu.Institution)))
	}

	p.printBox("CANDIDATE PROFILE", strings.TrimRight(sb.String(), "\n"))
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "(unknown)"
	}
	return *s
}
