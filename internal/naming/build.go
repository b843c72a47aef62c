package naming

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reInvalidChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	reWhitespaceRun = regexp.MustCompile(`\s+`)
)

// Sanitize removes characters that are invalid in filenames on common
// filesystems, collapses whitespace runs to single spaces, and trims the
// ends.
func Sanitize(name string) string {
	name = reInvalidChars.ReplaceAllString(name, "")
	name = reWhitespaceRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Build composes the canonical filename for a parsed package and its
// catalog record: "<name> [UPDATE <version>][<title id>](_PartN).<ext>".
// version is the record's canonical version; it wins over the version
// embedded in the original filename. The result is sanitized as a whole.
func Build(p ParsedName, displayName, version, ext string) string {
	part := ""
	if p.Part != "" {
		part = "_Part" + p.Part
	}
	name := fmt.Sprintf("%s [UPDATE %s][%s]%s%s",
		displayName, NormalizeVersion(version), p.TitleID, part, ext)
	return Sanitize(name)
}
