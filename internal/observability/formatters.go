// Package observability provides the logger and formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/persona-studio/internal/types"
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to the box interior, counting runes.
func truncate(line string) string {
	if utf8.RuneCountInString(line) <= boxWidth-4 {
		return line
	}
	runes := []rune(line)
	return string(runes[:boxWidth-7]) + "..."
}

// writeList appends up to maxItemsToShow bullet items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintPersona outputs a human-readable summary of one persona.
func (p *Printer) PrintPersona(persona *types.Persona) {
	if persona == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ID:          %s\n", persona.ID)
	fmt.Fprintf(&sb, "Age:         %d\n", persona.Age)
	fmt.Fprintf(&sb, "Occupation:  %s\n", persona.Occupation)
	fmt.Fprintf(&sb, "Demographics: %s\n", persona.Demographics)
	sb.WriteString("\n")

	writeList(&sb, "Goals", persona.Goals)
	writeList(&sb, "Challenges", persona.Challenges)
	writeList(&sb, "Motivations", persona.Motivations)
	writeList(&sb, "Channels", persona.CommunicationChannels)

	if len(persona.GoogleAds) > 0 {
		fmt.Fprintf(&sb, "Google Ads: %d variant(s)\n", len(persona.GoogleAds))
		first := persona.GoogleAds[0]
		fmt.Fprintf(&sb, "  %s | %s\n", first.Headline1, first.Headline2)
	}
	fmt.Fprintf(&sb, "Storyboard images: %d\n", len(persona.StoryboardImages))

	p.printBox("Persona: "+persona.Name, sb.String())
}

// PrintPersonas outputs every persona followed by a count line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPersonas(personas []types.Persona) {
	for i := range personas {
		p.PrintPersona(&personas[i])
	}
	fmt.Fprintf(p.out, "%d persona(s) generated\n", len(personas))
}

// PrintProcessedFiles outputs the attached files after preprocessing.
func (p *Printer) PrintProcessedFiles(files []types.ProcessedFile) {
	if len(files) == 0 {
		return
	}

	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "%s (%s, %.2f KB)", f.Name, f.Type, float64(f.Size)/1024)
		switch {
		case f.HasText():
			fmt.Fprintf(&sb, " text: %d chars", utf8.RuneCountInString(*f.Content))
		case f.Pages > 0:
			fmt.Fprintf(&sb, " pages: %d", f.Pages)
		default:
			sb.WriteString(" no text")
		}
		sb.WriteString("\n")
	}

	p.printBox(fmt.Sprintf("Attached Files (%d)", len(files)), sb.String())
}

// PrintWarnings outputs normalization warnings, or a success line if there are none.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintln(p.out, "✓ No normalization warnings")
		return
	}

	var sb strings.Builder
	for _, w := range warnings {
		fmt.Fprintf(&sb, "⚠ %s\n", w)
	}
	p.printBox(fmt.Sprintf("Warnings (%d)", len(warnings)), sb.String())
}

// PrintAdvisory outputs the non-fatal advisory attached to a result.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAdvisory(advisory string) {
	if advisory == "" {
		return
	}
	fmt.Fprintf(p.out, "ℹ %s\n", advisory)
}
