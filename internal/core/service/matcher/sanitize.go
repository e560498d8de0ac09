package matcher

import (
	"regexp"
	"strings"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	repeatedUnderscores = regexp.MustCompile(`_+`)
)

// SanitizeFilename makes an externally sourced name safe for storage keys and local paths.
// Applying it twice yields the same result as applying it once.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
