package archaeology

import (
	"strings"
	"testing"
	"time"

	"github.com/troweldev/trowel/internal/branchnote"
)

func mainBranchSections(t *testing.T) []branchnote.Section {
	t.Helper()
	id := branchnote.NewIdentity("demo", "main")
	text := branchnote.Header(id) +
		branchnote.FormatEntry("2026-08-18 09:15:00", "Dug into the flaky login test") +
		branchnote.FormatEntry("2026-08-18 11:40:00", "Found the root cause") +
		branchnote.FormatCommitSeparator("abcdef1234567890", "fix login flake", "2026-08-18 12:00:00") +
		branchnote.FormatEntry("2026-08-19 10:00:00", "Started on docs")
	return branchnote.ParseSections(text)
}

func TestCollectEvents(t *testing.T) {
	branches := []BranchSections{
		{Branch: "main", Sections: mainBranchSections(t)},
		{Branch: "feature", Sections: branchnote.ParseSections(
			branchnote.FormatEntry("2026-08-19 08:00:00", "Spiked the importer"))},
	}

	events, skipped := CollectEvents(branches, time.Time{})
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}

	// Chronological across branches.
	for i := 1; i < len(events); i++ {
		if events[i].When.Before(events[i-1].When) {
			t.Errorf("events out of order at %d: %v then %v", i, events[i-1].When, events[i].When)
		}
	}
	if events[2].Branch != "main" || !events[2].Section.IsCommit() {
		t.Errorf("event 2 should be the main-branch commit, got %+v", events[2])
	}
	if events[3].Branch != "feature" {
		t.Errorf("event 3 should come from feature, got %q", events[3].Branch)
	}
}

func TestCollectEvents_SinceFilter(t *testing.T) {
	branches := []BranchSections{{Branch: "main", Sections: mainBranchSections(t)}}
	since := time.Date(2026, 8, 19, 0, 0, 0, 0, time.Local)

	events, _ := CollectEvents(branches, since)
	if len(events) != 1 {
		t.Fatalf("got %d events after %v, want 1", len(events), since)
	}
	if got := events[0].Section.Message(); got != "Started on docs" {
		t.Errorf("surviving event = %q", got)
	}
}

func TestCollectEvents_UnparsableSkippedButCounted(t *testing.T) {
	sections := branchnote.ParseSections("## not a timestamp\nmystery entry\n\n")
	events, skipped := CollectEvents([]BranchSections{{Branch: "main", Sections: sections}}, time.Time{})
	if len(events) != 0 || skipped != 1 {
		t.Errorf("events = %d, skipped = %d; want 0 and 1", len(events), skipped)
	}
}

func TestRenderTimeline(t *testing.T) {
	branches := []BranchSections{{Branch: "main", Sections: mainBranchSections(t)}}
	events, skipped := CollectEvents(branches, time.Time{})

	out := RenderTimeline("demo", events, skipped, DetailStandard)
	for _, want := range []string{"Timeline: demo", "## 2026-08-18", "## 2026-08-19", "abcdef12", "[main]", "📏"} {
		if !strings.Contains(out, want) {
			t.Errorf("standard timeline missing %q:\n%s", want, out)
		}
	}

	sum := RenderTimeline("demo", events, skipped, DetailSummary)
	if !strings.Contains(sum, "event(s)") || !strings.Contains(sum, SummaryFooter) {
		t.Errorf("summary timeline:\n%s", sum)
	}
	if strings.Contains(sum, "Dug into the flaky") {
		t.Error("summary timeline should not include entry text")
	}
}

func TestRenderTimeline_Empty(t *testing.T) {
	out := RenderTimeline("", nil, 2, DetailStandard)
	if !strings.Contains(out, "All Projects") || !strings.Contains(out, "No dated activity") {
		t.Errorf("empty timeline:\n%s", out)
	}
	if !strings.Contains(out, "2 section(s)") {
		t.Errorf("skipped count missing:\n%s", out)
	}
}

func TestRenderNarrative(t *testing.T) {
	out := RenderNarrative("demo", "main", mainBranchSections(t))

	for _, want := range []string{
		"Narrative: demo / main",
		`Chapter 1: "fix login flake"`,
		"Dug into the flaky login test",
		"Sealed as `abcdef12`",
		"## Loose Ends",
		"Started on docs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("narrative missing %q:\n%s", want, out)
		}
	}
}

func TestRenderNarrative_Empty(t *testing.T) {
	out := RenderNarrative("demo", "main", nil)
	if !strings.Contains(out, "no recorded history") {
		t.Errorf("empty narrative:\n%s", out)
	}
}

func TestRenderNarrative_AllCommitted(t *testing.T) {
	id := branchnote.NewIdentity("demo", "main")
	text := branchnote.Header(id) +
		branchnote.FormatEntry("2026-08-18 09:15:00", "One change") +
		branchnote.FormatCommitSeparator("1234567890abcdef", "ship it", "2026-08-18 10:00:00")
	out := RenderNarrative("demo", "main", branchnote.ParseSections(text))

	if strings.Contains(out, "Loose Ends") {
		t.Errorf("fully committed branch should have no loose ends:\n%s", out)
	}
	if !strings.Contains(out, "Clean dig site") {
		t.Errorf("expected clean close:\n%s", out)
	}
}

func TestScoreDocsAndLeastComplete(t *testing.T) {
	docs := []SurveyDoc{
		{Slug: "rich", Category: "pattern", Text: richDoc},
		{Slug: "bare", Category: "gotcha", Text: bareDoc},
	}
	scores := ScoreDocs(docs)
	if len(scores) != 2 || scores[0].Slug != "rich" {
		t.Fatalf("scores = %+v", scores)
	}

	weak := LeastComplete(scores, 1)
	if len(weak) != 1 || weak[0].Slug != "bare" {
		t.Errorf("LeastComplete = %+v, want bare first", weak)
	}
}

func TestRenderSurvey(t *testing.T) {
	docs := []SurveyDoc{
		{Slug: "rich", Category: "pattern", Title: "Cache Invalidation", Tags: []string{"redis"}, Text: richDoc},
		{Slug: "bare", Category: "gotcha", Title: "Redis Gotcha", Tags: []string{"redis"}, Text: bareDoc},
	}
	counts := SurveyCounts{BranchNotes: 2, Knowledge: 2, Contexts: 1, Checklists: 1}

	out := RenderSurvey("demo", counts, docs, DetailStandard)
	for _, want := range []string{"Site Survey: demo", "Branch notes: 2", "| rich |", "| bare |", "Needs Excavation"} {
		if !strings.Contains(out, want) {
			t.Errorf("survey missing %q:\n%s", want, out)
		}
	}

	sum := RenderSurvey("demo", counts, docs, DetailSummary)
	if strings.Contains(sum, "| rich |") {
		t.Error("summary survey should omit the score table")
	}

	full := RenderSurvey("demo", counts, docs, DetailFull)
	if !strings.Contains(full, "Related Documents") || !strings.Contains(full, "shared tag: redis") {
		t.Errorf("full survey missing relations:\n%s", full)
	}
}
