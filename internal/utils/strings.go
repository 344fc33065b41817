package utils

import "strings"

// SplitCSV splits every value on commas and returns the trimmed, non-empty
// parts in order. Returns nil when nothing remains.
// Query parameters arrive either repeated or comma-separated; this accepts both.
func SplitCSV(values ...string) []string {
	var result []string
	for _, s := range values {
		for _, v := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}
