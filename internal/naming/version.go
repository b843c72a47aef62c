package naming

import (
	"fmt"
	"regexp"
	"strconv"
)

var reDottedVersion = regexp.MustCompile(`^\d{1,2}\.\d{2}$`)

// NormalizeVersion maps the version shapes found in catalogs and content
// IDs onto the dotted "major.minor" form used in generated names: "0100"
// becomes "1.00", "5" becomes "1.05", "1.26" passes through. An empty
// value falls back to "1.00". Strings that fit none of the known shapes
// are returned unchanged.
func NormalizeVersion(raw string) string {
	if raw == "" {
		return "1.00"
	}
	if reDottedVersion.MatchString(raw) {
		return raw
	}
	if len(raw) >= 3 {
		// Last two characters are the minor part, the rest the major.
		major, err := strconv.Atoi(raw[:len(raw)-2])
		if err != nil {
			return raw
		}
		return fmt.Sprintf("%d.%s", major, raw[len(raw)-2:])
	}
	for len(raw) < 2 {
		raw = "0" + raw
	}
	return "1." + raw
}
