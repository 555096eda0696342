// Package archaeology builds reports over the markdown knowledge store:
// timelines, per-branch narratives, inventory surveys, and
// documentation-gap scans. Everything in this package is a pure
// function over parsed sections and file metadata; the MCP tool layer
// owns all I/O.
package archaeology

import "fmt"

// Detail level constants for report verbosity.
const (
	DetailSummary  = "summary"
	DetailStandard = "standard"
	DetailFull     = "full"
)

// DetailLevelValues returns the enum values for MCP tool definitions.
func DetailLevelValues() []string {
	return []string{DetailSummary, DetailStandard, DetailFull}
}

// ParseDetailLevel normalizes a detail_level string, defaulting to
// "standard" for empty or unrecognized values.
func ParseDetailLevel(s string) string {
	switch s {
	case DetailSummary, DetailFull:
		return s
	default:
		return DetailStandard
	}
}

// SummaryFooter is appended to summary-mode reports to point at the
// fuller views.
const SummaryFooter = "\n---\n💡 Use detail_level: standard or full for more detail."

// NavigationHint returns a one-line footer when results are capped by a
// limit. Returns an empty string when all results fit or total is 0.
func NavigationHint(showing, total int, hint string) string {
	if total <= 0 || showing >= total {
		return ""
	}
	if hint != "" {
		return fmt.Sprintf("\n📊 Showing %d of %d. %s", showing, total, hint)
	}
	return fmt.Sprintf("\n📊 Showing %d of %d.", showing, total)
}

// EstimateTokens approximates the token count for a text string using
// the chars/4 heuristic. Returns 0 for empty strings, at least 1 for
// non-empty strings.
func EstimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TokenFooter returns a one-line footer with the estimated token count
// for a report. Appended to read-heavy tool responses so the caller can
// see the context cost.
func TokenFooter(estimatedTokens int) string {
	return fmt.Sprintf("\n📏 ~%d tokens", estimatedTokens)
}
