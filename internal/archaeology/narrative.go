package archaeology

import (
	"fmt"
	"strings"

	"github.com/troweldev/trowel/internal/branchnote"
)

// RenderNarrative tells one branch's story in chapters: each commit
// closes a chapter of the entries that led up to it, and whatever
// remains uncommitted becomes the loose ends.
func RenderNarrative(project, branch string, sections []branchnote.Section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 📜 Narrative: %s / %s\n\n", project, branch)

	if len(sections) == 0 {
		sb.WriteString("This branch has no recorded history yet.\n")
		return sb.String()
	}

	if when, err := sections[0].Timestamp(); err == nil {
		fmt.Fprintf(&sb, "Work began on %s.\n\n", when.Format("Monday, 2006-01-02 at 15:04"))
	}

	chapter := 1
	var pending []branchnote.Section
	for _, s := range sections {
		if !s.IsCommit() {
			pending = append(pending, s)
			continue
		}

		info := s.CommitInfo()
		title := "a commit"
		if info.Message != "" {
			title = fmt.Sprintf("%q", info.Message)
		}
		fmt.Fprintf(&sb, "## Chapter %d: %s\n\n", chapter, title)
		if len(pending) == 0 {
			sb.WriteString("Committed without any logged entries.\n\n")
		} else {
			for _, p := range pending {
				fmt.Fprintf(&sb, "- %s\n", firstLine(p.Message(), 100))
			}
			sb.WriteString("\n")
		}
		if info.ShortHash != "" {
			fmt.Fprintf(&sb, "Sealed as `%s` at %s.\n\n", info.ShortHash, info.Timestamp)
		}
		chapter++
		pending = nil
	}

	if len(pending) > 0 {
		sb.WriteString("## Loose Ends (uncommitted)\n\n")
		for _, p := range pending {
			fmt.Fprintf(&sb, "- %s\n", firstLine(p.Message(), 100))
		}
		sb.WriteString("\nThese entries have not been sealed by a commit yet.\n")
	} else if chapter > 1 {
		sb.WriteString("Everything logged here has been committed. Clean dig site.\n")
	}

	out := sb.String()
	return out + TokenFooter(EstimateTokens(out))
}
