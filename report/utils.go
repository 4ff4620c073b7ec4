package report

import "strings"

// sanitizeFilename replaces characters that are unsupported or
// awkward in artifact filenames.
func sanitizeFilename(s string) string {
	s = strings.Replace(s, "/", "-", -1)
	s = strings.Replace(s, ":", "-", -1)
	s = strings.Replace(s, " ", "_", -1)
	return s
}
