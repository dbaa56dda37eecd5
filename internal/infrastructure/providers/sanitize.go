package providers

import (
	"regexp"
	"strings"
)

var listPrefixRe = regexp.MustCompile(`^\d+[.)]\s*`)

// DedupeLines removes repeated lines from generated text. Small models tend
// to loop; comparing lines with leading list numbering stripped catches
// "1. foo" / "2. foo" style repeats too.
func DedupeLines(text string) string {
	seen := make(map[string]bool)
	var result []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		clean := listPrefixRe.ReplaceAllString(trimmed, "")
		if clean == "" {
			// Keep blank lines so paragraph structure survives.
			result = append(result, "")
			continue
		}
		if seen[clean] {
			continue
		}
		seen[clean] = true
		result = append(result, trimmed)
	}

	return strings.Join(result, "\n")
}
