package utils

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^\w\s-]`)

// SanitizeClientName strips everything but word characters, whitespace and
// hyphens from a client name so it is safe to embed in a filename. Falls back
// to "cliente" when nothing survives.
func SanitizeClientName(name string) string {
	cleaned := strings.TrimSpace(unsafeChars.ReplaceAllString(name, ""))
	if cleaned == "" {
		return "cliente"
	}
	return cleaned
}
