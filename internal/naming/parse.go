// Package naming parses game-package filenames into their content-ID
// components and composes canonical names from catalog records.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ParsedName holds the components recovered from a package filename.
// Optional components are empty when the matched form does not carry them.
type ParsedName struct {
	TitleID      string // CUSA-style identifier, always present on a match
	Publisher    string // e.g. UP0017, full content-ID forms only
	ContentLabel string // label segment of the content ID
	AppVersion   string // A-token digits, full content-ID forms only
	Version      string // V-token digits embedded in the filename
	Part         string // split-package part number, if any
}

// parseRule pairs a compiled pattern with its extraction function. Rules
// are evaluated in order by [Parse]; first match wins.
type parseRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(m []string) ParsedName
}

// Patterns anchor at the start of the name and tolerate trailing text, so
// decorated downloads ("..._fix2 (1)") still parse.
var rules = []parseRule{
	{
		name:    "content-id-part",
		pattern: regexp.MustCompile(`^([A-Z]{2}\d+)-([A-Z]{4}\d+)_\d+-([A-Z0-9]+)-A(\d+)-V(\d+)(?:_(\d+))?`),
		extract: func(m []string) ParsedName {
			return ParsedName{
				Publisher:    m[1],
				TitleID:      m[2],
				ContentLabel: m[3],
				AppVersion:   m[4],
				Version:      m[5],
				Part:         m[6],
			}
		},
	},
	{
		name:    "content-id",
		pattern: regexp.MustCompile(`^([A-Z]{2}\d+)-([A-Z]{4}\d+)_\d+-([A-Z0-9]+)-A(\d+)-V(\d+)`),
		extract: func(m []string) ParsedName {
			return ParsedName{
				Publisher:    m[1],
				TitleID:      m[2],
				ContentLabel: m[3],
				AppVersion:   m[4],
				Version:      m[5],
			}
		},
	},
	{
		name:    "short-id",
		pattern: regexp.MustCompile(`^([A-Z]{4}\d+)-([A-Z0-9]+)-V(\d+)`),
		extract: func(m []string) ParsedName {
			return ParsedName{
				TitleID:      m[1],
				ContentLabel: m[2],
				Version:      m[3],
			}
		},
	},
}

// Parse matches filename against the known package-name forms and returns
// the extracted components. The second return is false when no form
// matches; an unparseable name is not an error.
func Parse(filename string) (ParsedName, bool) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	for _, rule := range rules {
		m := rule.pattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		return rule.extract(m), true
	}
	return ParsedName{}, false
}
