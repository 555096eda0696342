// Package branchnote implements the append-only branch note log.
//
// A branch note is one markdown file per (project, branch) pair holding a
// header line followed by timestamped entries and commit separators, always
// appended and never edited in place. The same file is re-read and re-parsed
// by every consumer (filters, reports, generators), so the format and the
// section parser in parse.go are the compatibility contract for everything
// stored under branch_notes/.
package branchnote

import (
	"fmt"
	"strings"
)

// TimestampLayout is the timestamp format used in entry and commit headers.
// Local clock, second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// Identity addresses one branch note file. Both fields are stored in
// sanitized form so the pair maps directly onto a filesystem path.
type Identity struct {
	Project string
	Branch  string
}

// NewIdentity builds an Identity from raw project and branch names,
// sanitizing both.
func NewIdentity(project, branch string) Identity {
	return Identity{
		Project: Sanitize(project),
		Branch:  Sanitize(branch),
	}
}

func (id Identity) String() string {
	return id.Project + "/" + id.Branch
}

// Sanitize maps a name onto a filesystem-safe token: every rune outside
// [A-Za-z0-9-_] becomes an underscore.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Now returns the current local time in TimestampLayout.
func Now() string {
	return timeNow().Format(TimestampLayout)
}

// Header returns the first line of a fresh note file, including the blank
// line that separates it from the first section.
func Header(id Identity) string {
	return fmt.Sprintf("# Branch Note: %s (%s)\n\n", id.Branch, id.Project)
}

// FormatEntry renders one timestamped entry block.
func FormatEntry(timestamp, message string) string {
	return fmt.Sprintf("## %s\n%s\n\n", timestamp, message)
}

// FormatCommitSeparator renders the immutable commit marker block. The short
// hash appears in the section header, the full hash in the body.
func FormatCommitSeparator(hash, message, timestamp string) string {
	return fmt.Sprintf(
		"\n---\n\n## COMMIT: %s | %s\n**Full Hash:** %s\n**Message:** %s\n\n---\n\n",
		ShortHash(hash), timestamp, hash, message,
	)
}

// ShortHash returns the first 8 characters of a commit hash, or the whole
// hash when it is already shorter.
func ShortHash(hash string) string {
	runes := []rune(hash)
	if len(runes) > 8 {
		return string(runes[:8])
	}
	return hash
}
