// Package validate checks catalog sources and the merged store for
// problems that would degrade a rename pass.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/retroforge/repkg/internal/catalog"
	"github.com/retroforge/repkg/internal/naming"
)

// Severity classifies validation issues.
type Severity int

const (
	SeverityError   Severity = iota // the source contributes nothing usable
	SeverityWarning                 // degraded output, pass still works
)

// Issue represents a single validation problem.
type Issue struct {
	Severity Severity
	Subject  string // catalog file or title ID
	Field    string
	Message  string
}

func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s: %s", sev, i.Subject, i.Field, i.Message)
}

// Result holds all validation issues.
type Result struct {
	Issues []Issue
}

// HasErrors returns true if there are any blocking errors.
func (r *Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (r *Result) Errors() []Issue {
	var errs []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (r *Result) Warnings() []Issue {
	var warns []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			warns = append(warns, i)
		}
	}
	return warns
}

var reDottedVersion = regexp.MustCompile(`^\d+\.\d{2}$`)

// Check inspects per-source load results and the merged store. Sources
// that failed outright are errors; records that will produce degraded
// names are warnings.
func Check(results []catalog.LoadResult, store *catalog.Store) *Result {
	r := &Result{}

	for _, res := range results {
		switch {
		case res.Err != nil:
			r.Issues = append(r.Issues, Issue{SeverityError, res.File, "parse",
				res.Err.Error()})
		case res.Records == 0:
			r.Issues = append(r.Issues, Issue{SeverityWarning, res.File, "records",
				"no usable records"})
		}
	}

	if store.Len() == 0 {
		r.Issues = append(r.Issues, Issue{SeverityError, "catalog", "records",
			"no records ingested from any source"})
		return r
	}

	for _, ow := range store.Overwrites() {
		r.Issues = append(r.Issues, Issue{SeverityWarning, ow.TitleID, "sources",
			fmt.Sprintf("record from %s replaced by %s", ow.OldSource, ow.NewSource)})
	}

	for _, rec := range store.Records() {
		if !reDottedVersion.MatchString(naming.NormalizeVersion(rec.Version)) {
			r.Issues = append(r.Issues, Issue{SeverityWarning, rec.TitleID, "version",
				fmt.Sprintf("version %q does not normalize to major.minor", rec.Version)})
		}
		if naming.Sanitize(rec.Name) != strings.TrimSpace(rec.Name) {
			r.Issues = append(r.Issues, Issue{SeverityWarning, rec.TitleID, "name",
				fmt.Sprintf("display name %q will be altered during generation", rec.Name)})
		}
	}

	return r
}

// FormatResult formats validation results for display.
func FormatResult(r *Result) string {
	if len(r.Issues) == 0 {
		return "Validation passed: no issues found."
	}

	var b strings.Builder
	errors := r.Errors()
	warnings := r.Warnings()

	if len(errors) > 0 {
		b.WriteString(fmt.Sprintf("Errors (%d):\n", len(errors)))
		for _, e := range errors {
			b.WriteString(fmt.Sprintf("  %s\n", e))
		}
	}

	if len(warnings) > 0 {
		b.WriteString(fmt.Sprintf("Warnings (%d):\n", len(warnings)))
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  %s\n", w))
		}
	}

	return b.String()
}
