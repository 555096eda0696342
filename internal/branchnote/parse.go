package branchnote

import (
	"log/slog"
	"strings"
	"time"
)

// Section is one parsed unit of a note file: either a timestamped entry or
// a commit separator. The two variants are distinguished by content, not by
// an explicit type field, matching the on-disk format.
type Section struct {
	// Header is the first line of the section (timestamp or commit header).
	Header string
	// Body is everything after the first line.
	Body string
	// Raw is the full section text as recovered by the split, without the
	// leading "## " delimiter.
	Raw string
}

// IsCommit reports whether the section is a commit separator. The rule is
// substring-based for compatibility with files written by older versions:
// any section containing "COMMIT:" anywhere counts.
func (s Section) IsCommit() bool {
	return strings.Contains(s.Raw, "COMMIT:")
}

// Timestamp parses the section header as an entry timestamp.
func (s Section) Timestamp() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, strings.TrimSpace(s.Header), time.Local)
}

// Message returns the entry body trimmed of surrounding whitespace and of
// the horizontal-rule tail that precedes a following commit separator.
func (s Section) Message() string {
	body := strings.TrimSpace(s.Body)
	if strings.HasSuffix(body, "\n---") {
		body = strings.TrimSpace(strings.TrimSuffix(body, "---"))
	}
	return body
}

// CommitInfo holds the fields recovered from a commit separator section.
type CommitInfo struct {
	ShortHash string
	FullHash  string
	Message   string
	Timestamp string
}

// CommitInfo extracts hash and message metadata from a commit separator.
// Missing fields stay empty; nothing fails.
func (s Section) CommitInfo() CommitInfo {
	var info CommitInfo

	header := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s.Header), "COMMIT:"))
	if short, ts, ok := strings.Cut(header, "|"); ok {
		info.ShortHash = strings.TrimSpace(short)
		info.Timestamp = strings.TrimSpace(ts)
	} else {
		info.ShortHash = header
	}

	for _, line := range strings.Split(s.Body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "**Full Hash:**"):
			info.FullHash = strings.TrimSpace(strings.TrimPrefix(line, "**Full Hash:**"))
		case strings.HasPrefix(line, "**Message:**"):
			info.Message = strings.TrimSpace(strings.TrimPrefix(line, "**Message:**"))
		}
	}
	return info
}

// ParseSections recovers the ordered section list from raw note file text.
//
// The algorithm is the compatibility contract for every file already on
// disk: split on the literal "## ", discard the text before the first
// delimiter (the file header), and drop empty pieces. A section boundary is
// therefore recognized anywhere the delimiter occurs, including mid-line;
// entries are expected not to contain "## " at the start of a line.
func ParseSections(text string) []Section {
	parts := strings.Split(text, "## ")
	if len(parts) > 0 {
		parts = parts[1:]
	}

	sections := make([]Section, 0, len(parts))
	for _, raw := range parts {
		if raw == "" {
			continue
		}
		header, body, _ := strings.Cut(raw, "\n")
		sections = append(sections, Section{
			Header: header,
			Body:   body,
			Raw:    raw,
		})
	}
	return sections
}

// UncommittedSuffix returns the sections strictly after the last commit
// separator, in file order. When no separator exists, every section counts
// as uncommitted.
func UncommittedSuffix(sections []Section) []Section {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].IsCommit() {
			return append([]Section(nil), sections[i+1:]...)
		}
	}
	return append([]Section(nil), sections...)
}

// LastCommit returns the most recent commit separator, if any.
func LastCommit(sections []Section) (Section, bool) {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].IsCommit() {
			return sections[i], true
		}
	}
	return Section{}, false
}

// Entries returns only the entry sections, preserving order.
func Entries(sections []Section) []Section {
	var entries []Section
	for _, s := range sections {
		if !s.IsCommit() {
			entries = append(entries, s)
		}
	}
	return entries
}

// FilterByDate returns the entries whose timestamps fall strictly inside
// the (after, before) window. A zero bound is open. Commit separators are
// always excluded. Entries with unparsable timestamps are kept (fail-open)
// with a logged warning, so a hand-edited file never hides work.
func FilterByDate(sections []Section, after, before time.Time) []Section {
	var kept []Section
	for _, s := range sections {
		if s.IsCommit() {
			continue
		}
		ts, err := s.Timestamp()
		if err != nil {
			slog.Warn("keeping entry with unparsable timestamp", "header", s.Header)
			kept = append(kept, s)
			continue
		}
		if !after.IsZero() && !ts.After(after) {
			continue
		}
		if !before.IsZero() && !ts.Before(before) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// RenderSections re-renders sections back into note markdown, restoring the
// "## " delimiter that the parse stripped.
func RenderSections(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString("## ")
		b.WriteString(s.Raw)
	}
	return b.String()
}
