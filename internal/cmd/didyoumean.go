package cmd

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// suggestName returns the closest candidate to input, or "" when nothing is
// close. Candidates containing the input as a subsequence rank first, then
// candidates that are a subsequence of the input, then a shared two-letter
// prefix.
func suggestName(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(candidates) == 0 {
		return ""
	}

	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}
	if matches := fuzzy.Find(input, lowered); len(matches) > 0 {
		return candidates[matches[0].Index]
	}
	for i, c := range lowered {
		if len(fuzzy.Find(c, []string{input})) > 0 {
			return candidates[i]
		}
	}
	if len(input) >= 2 {
		for i, c := range lowered {
			if strings.HasPrefix(c, input[:2]) {
				return candidates[i]
			}
		}
	}
	return ""
}

// suggestFlag is suggestName for flag names, keeping the "--" prefix.
func suggestFlag(unknown string, names []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	bare := make([]string, len(names))
	for i, n := range names {
		bare[i] = strings.TrimLeft(n, "-")
	}
	match := suggestName(stripped, bare)
	if match == "" {
		return ""
	}
	return "--" + match
}
