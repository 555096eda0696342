package archaeology

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/troweldev/trowel/internal/branchnote"
)

// BranchSections pairs a branch name with its parsed note sections.
// The tool layer loads and parses the files; this package only merges
// and renders.
type BranchSections struct {
	Branch   string
	Sections []branchnote.Section
}

// Event is one timeline entry: a dated section from some branch.
type Event struct {
	Branch  string
	Section branchnote.Section
	When    time.Time
}

// CollectEvents flattens branch sections into a single time-ordered
// event list. Sections whose timestamp cannot be parsed are excluded
// from the timeline but counted in skipped. A zero since keeps
// everything; otherwise only events at or after since survive.
func CollectEvents(branches []BranchSections, since time.Time) (events []Event, skipped int) {
	for _, b := range branches {
		for _, s := range b.Sections {
			when, err := sectionTime(s)
			if err != nil {
				skipped++
				continue
			}
			if !since.IsZero() && when.Before(since) {
				continue
			}
			events = append(events, Event{Branch: b.Branch, Section: s, When: when})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].When.Before(events[j].When)
	})
	return events, skipped
}

func sectionTime(s branchnote.Section) (time.Time, error) {
	if s.IsCommit() {
		info := s.CommitInfo()
		return time.ParseInLocation(branchnote.TimestampLayout, info.Timestamp, time.Local)
	}
	return s.Timestamp()
}

// RenderTimeline formats events as day-grouped markdown at the given
// detail level.
func RenderTimeline(project string, events []Event, skipped int, level string) string {
	var sb strings.Builder

	title := "All Projects"
	if project != "" {
		title = project
	}
	fmt.Fprintf(&sb, "# ⛏️ Timeline: %s\n\n", title)

	if len(events) == 0 {
		sb.WriteString("No dated activity found in this window.\n")
		if skipped > 0 {
			fmt.Fprintf(&sb, "\n⚠️ %d section(s) had unparsable timestamps and were left out.\n", skipped)
		}
		return sb.String()
	}

	entries, commits := 0, 0
	for _, e := range events {
		if e.Section.IsCommit() {
			commits++
		} else {
			entries++
		}
	}
	fmt.Fprintf(&sb, "*%d entries, %d commits, %s → %s*\n\n",
		entries, commits,
		events[0].When.Format("2006-01-02"),
		events[len(events)-1].When.Format("2006-01-02"))

	level = ParseDetailLevel(level)

	currentDay := ""
	dayCount := 0
	for _, e := range events {
		day := e.When.Format("2006-01-02")
		if day != currentDay {
			if currentDay != "" && level == DetailSummary {
				fmt.Fprintf(&sb, "- %d event(s)\n", dayCount)
			}
			fmt.Fprintf(&sb, "\n## %s (%s)\n\n", day, e.When.Format("Monday"))
			currentDay = day
			dayCount = 0
		}
		dayCount++
		if level == DetailSummary {
			continue
		}
		sb.WriteString(renderEvent(e, level))
	}
	if level == DetailSummary {
		fmt.Fprintf(&sb, "- %d event(s)\n", dayCount)
	}

	if skipped > 0 {
		fmt.Fprintf(&sb, "\n⚠️ %d section(s) had unparsable timestamps and were left out.\n", skipped)
	}
	if level == DetailSummary {
		sb.WriteString(SummaryFooter)
	}

	out := sb.String()
	return out + TokenFooter(EstimateTokens(out))
}

func renderEvent(e Event, level string) string {
	clock := e.When.Format("15:04")

	if e.Section.IsCommit() {
		info := e.Section.CommitInfo()
		return fmt.Sprintf("- 🔖 %s [%s] commit `%s` %s\n", clock, e.Branch, info.ShortHash, info.Message)
	}

	msg := e.Section.Message()
	if level == DetailFull {
		if strings.Contains(msg, "\n") {
			return fmt.Sprintf("- ✏️ %s [%s]\n\n  %s\n\n", clock, e.Branch,
				strings.ReplaceAll(msg, "\n", "\n  "))
		}
		return fmt.Sprintf("- ✏️ %s [%s] %s\n", clock, e.Branch, msg)
	}

	return fmt.Sprintf("- ✏️ %s [%s] %s\n", clock, e.Branch, firstLine(msg, 80))
}

// firstLine returns the first line of s, truncated to max runes.
func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
