// Package display handles console presentation: progress spinners, error
// output, and optional markdown rendering of listings.
package display

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"

	"github.com/dwtools/dwcli/internal/platform"
)

var renderer *glamour.TermRenderer

// NewSpinner creates a spinner with the given suffix message, writing to
// stderr so stdout stays parseable.
func NewSpinner(message string) *spinner.Spinner {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + message
	return sp
}

// ShowError prints an error message to stderr
func ShowError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

// InitRenderer initializes the markdown renderer used by RenderMarkdown
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	renderer = r
	return nil
}

// RenderMarkdown renders markdown for the terminal, falling back to the
// raw text when no renderer is available.
func RenderMarkdown(md string) string {
	if renderer == nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// DocumentsTable formats document records as a markdown table. Columns are
// the union of all field names, id field first, the rest sorted.
func DocumentsTable(records []platform.DocumentRecord, idField string) string {
	if len(records) == 0 {
		return "No documents.\n"
	}

	columns := columnOrder(records, idField)

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")
	for _, rec := range records {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = escapeCell(rec.Row[col])
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

// CabinetsTable formats cabinets as a markdown table
func CabinetsTable(cabinets []platform.Cabinet) string {
	if len(cabinets) == 0 {
		return "No cabinets.\n"
	}

	var sb strings.Builder
	sb.WriteString("| Id | Name |\n| --- | --- |\n")
	for _, c := range cabinets {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", escapeCell(c.ID), escapeCell(c.Name)))
	}
	return sb.String()
}

func columnOrder(records []platform.DocumentRecord, idField string) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Row {
			seen[name] = true
		}
	}

	var columns []string
	for name := range seen {
		if name != idField {
			columns = append(columns, name)
		}
	}
	sort.Strings(columns)

	if seen[idField] {
		columns = append([]string{idField}, columns...)
	}
	return columns
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
