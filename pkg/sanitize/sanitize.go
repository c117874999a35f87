// Package sanitize strips substrings that could alter query structure
// from free-text inputs. Every query is parameterized anyway; this is a
// second layer applied to name fields before storage. Format-validated
// fields (email, ci_ruc) are not sanitized.
package sanitize

import "strings"

var sequences = []string{"'", `"`, ";", "--", "/*", "*/"}

// Clean removes the blocked sequences and trims surrounding whitespace.
func Clean(input string) string {
	out := input
	for _, seq := range sequences {
		out = strings.ReplaceAll(out, seq, "")
	}
	return strings.TrimSpace(out)
}
