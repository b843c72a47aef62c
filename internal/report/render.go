package report

import (
	"fmt"
	"strings"
)

// RenderSummary formats a pass result for console display.
func RenderSummary(doc *Document) string {
	var b strings.Builder

	mode := "Rename"
	if doc.DryRun {
		mode = "Dry run"
	}
	fmt.Fprintf(&b, "%s summary for %s\n", mode, doc.TargetDirectory)
	fmt.Fprintf(&b, "  Total files:  %d\n", doc.Statistics.TotalFiles)
	fmt.Fprintf(&b, "  Processed:    %d\n", doc.Statistics.Processed)
	fmt.Fprintf(&b, "  Renamed:      %d\n", doc.Statistics.Renamed)
	fmt.Fprintf(&b, "  Skipped:      %d\n", doc.Statistics.Skipped)
	fmt.Fprintf(&b, "  Errors:       %d\n", doc.Statistics.Errors)
	fmt.Fprintf(&b, "  Catalog size: %d titles\n", doc.DatabaseSize)

	if len(doc.Errors) > 0 {
		b.WriteString("Failures:\n")
		for _, e := range doc.Errors {
			fmt.Fprintf(&b, "  %s: %s\n", e.File, e.Error)
		}
	}
	return b.String()
}

// RenderSamples formats up to n planned renames, one per line.
func RenderSamples(doc *Document, n int) string {
	if len(doc.RenamedFiles) == 0 {
		return ""
	}
	if n > len(doc.RenamedFiles) {
		n = len(doc.RenamedFiles)
	}

	var b strings.Builder
	b.WriteString("Sample renames:\n")
	for _, rf := range doc.RenamedFiles[:n] {
		fmt.Fprintf(&b, "  %s\n    -> %s\n", rf.Original, rf.New)
	}
	if rest := len(doc.RenamedFiles) - n; rest > 0 {
		fmt.Fprintf(&b, "  ... and %d more\n", rest)
	}
	return b.String()
}
