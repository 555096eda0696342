package hats

import (
	"fmt"
	"strings"
)

// SummaryTitle returns the knowledge-doc title for a finished session.
func SummaryTitle(s *Session) string {
	return fmt.Sprintf("%s: %s", KindLabel(s.Kind), s.Topic)
}

// RenderSummary formats a completed session's notes as the body of a
// knowledge document. Steps without notes are listed but marked silent,
// so the record shows the step was walked, not skipped.
func RenderSummary(s *Session) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Topic: **%s**\n\n", s.Topic)
	fmt.Fprintf(&sb, "Session `%s`, %s → %s.\n", s.ID, s.CreatedAt, s.UpdatedAt)

	for _, step := range s.Steps {
		fmt.Fprintf(&sb, "\n## %s\n\n", stepTitle(step.Name))
		if strings.TrimSpace(step.Notes) == "" {
			sb.WriteString("_No notes recorded for this step._\n")
			continue
		}
		sb.WriteString(strings.TrimSpace(step.Notes))
		sb.WriteString("\n")
	}

	return sb.String()
}

// stepTitle turns a step name like "blue-open" into "Blue Open".
func stepTitle(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
