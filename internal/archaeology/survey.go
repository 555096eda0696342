package archaeology

import (
	"fmt"
	"sort"
	"strings"
)

// SurveyDoc is the slice of a knowledge document the survey needs.
type SurveyDoc struct {
	Slug     string
	Category string
	Title    string
	Tags     []string
	Text     string
}

// DocScore holds the heuristic scores for one document.
type DocScore struct {
	Slug         string `json:"slug"`
	Category     string `json:"category"`
	Completeness int    `json:"completeness"`
	Complexity   int    `json:"complexity"`
	Readiness    string `json:"readiness"`
}

// ScoreDocs runs every scorer over every document, preserving input
// order.
func ScoreDocs(docs []SurveyDoc) []DocScore {
	scores := make([]DocScore, 0, len(docs))
	for _, d := range docs {
		scores = append(scores, DocScore{
			Slug:         d.Slug,
			Category:     d.Category,
			Completeness: CompletenessScore(d.Text),
			Complexity:   ComplexityScore(d.Text),
			Readiness:    Readiness(d.Text),
		})
	}
	return scores
}

// LeastComplete returns up to n scores sorted by completeness
// ascending, ties broken by slug for stable output.
func LeastComplete(scores []DocScore, n int) []DocScore {
	sorted := make([]DocScore, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Completeness != sorted[j].Completeness {
			return sorted[i].Completeness < sorted[j].Completeness
		}
		return sorted[i].Slug < sorted[j].Slug
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SurveyCounts is the artifact inventory by kind.
type SurveyCounts struct {
	BranchNotes int
	Knowledge   int
	Contexts    int
	Checklists  int
}

// RenderSurvey formats the full site survey: inventory, document
// scores, weak spots, and detected relations.
func RenderSurvey(project string, counts SurveyCounts, docs []SurveyDoc, level string) string {
	var sb strings.Builder

	title := "All Projects"
	if project != "" {
		title = project
	}
	fmt.Fprintf(&sb, "# 🗺️ Site Survey: %s\n\n", title)

	sb.WriteString("## Inventory\n\n")
	fmt.Fprintf(&sb, "- Branch notes: %d\n", counts.BranchNotes)
	fmt.Fprintf(&sb, "- Knowledge docs: %d\n", counts.Knowledge)
	fmt.Fprintf(&sb, "- Context files: %d\n", counts.Contexts)
	fmt.Fprintf(&sb, "- Checklists: %d\n", counts.Checklists)

	level = ParseDetailLevel(level)

	scores := ScoreDocs(docs)
	if len(scores) > 0 && level != DetailSummary {
		sb.WriteString("\n## Knowledge Docs\n\n")
		sb.WriteString("| Doc | Category | Completeness | Complexity | Readiness |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, s := range scores {
			fmt.Fprintf(&sb, "| %s | %s | %d | %d | %s |\n",
				s.Slug, s.Category, s.Completeness, s.Complexity, s.Readiness)
		}

		weak := LeastComplete(scores, 3)
		if len(weak) > 0 && weak[0].Completeness < 60 {
			sb.WriteString("\n## Needs Excavation\n\n")
			for _, w := range weak {
				if w.Completeness >= 60 {
					break
				}
				fmt.Fprintf(&sb, "- **%s** (completeness %d): flesh out intro, sections, or examples\n",
					w.Slug, w.Completeness)
			}
		}
	}

	if level == DetailFull {
		refs := make([]DocRef, 0, len(docs))
		for _, d := range docs {
			refs = append(refs, DocRef{Slug: d.Slug, Title: d.Title, Tags: d.Tags})
		}
		if relations := DetectRelations(refs); len(relations) > 0 {
			sb.WriteString("\n## Related Documents\n\n")
			for _, r := range relations {
				fmt.Fprintf(&sb, "- %s ↔ %s (shared %s: %s)\n", r.A, r.B, r.Kind, r.Via)
			}
		}
	}

	if level == DetailSummary {
		sb.WriteString(SummaryFooter)
	}

	out := sb.String()
	return out + TokenFooter(EstimateTokens(out))
}
