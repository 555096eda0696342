// Package knowledge implements the file stores for knowledge documents,
// per-project context files, and checklists. Everything is markdown on
// disk; metadata lives in conventional "**Field:** value" lines near the
// top of each file and is parsed back leniently.
package knowledge

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Category classifies a knowledge document.
type Category string

const (
	// CategoryPattern records a reusable solution shape.
	CategoryPattern Category = "pattern"
	// CategoryDecision records why something was chosen.
	CategoryDecision Category = "decision"
	// CategoryGotcha records a trap future readers should not refall into.
	CategoryGotcha Category = "gotcha"
	// CategoryProcess records how a recurring task is performed.
	CategoryProcess Category = "process"
	// CategoryReference is the default bucket for everything else.
	CategoryReference Category = "reference"
)

// validCategories is the closed set accepted by ValidateCategory.
var validCategories = map[Category]bool{
	CategoryPattern:   true,
	CategoryDecision:  true,
	CategoryGotcha:    true,
	CategoryProcess:   true,
	CategoryReference: true,
}

// CategoryValues returns the valid categories in display order.
func CategoryValues() []string {
	return []string{
		string(CategoryPattern),
		string(CategoryDecision),
		string(CategoryGotcha),
		string(CategoryProcess),
		string(CategoryReference),
	}
}

// ValidateCategory checks that c is a known category.
func ValidateCategory(c Category) error {
	if !validCategories[c] {
		return fmt.Errorf("invalid category %q (valid: %s)", c, strings.Join(CategoryValues(), ", "))
	}
	return nil
}

// Doc summarizes one stored knowledge document.
type Doc struct {
	Slug      string
	Title     string
	Category  Category
	Tags      []string
	Path      string
	UpdatedAt time.Time
}

// maxSlugLen bounds generated slugs so paths stay reasonable.
const maxSlugLen = 50

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title into a url/filesystem-safe slug:
// lowercase, alphanumerics and hyphens only, truncated at a word boundary.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLen {
		truncated := slug[:maxSlugLen]
		if idx := strings.LastIndex(truncated, "-"); idx > 0 {
			truncated = truncated[:idx]
		}
		slug = truncated
	}

	if slug == "" {
		return "unnamed-doc"
	}
	return slug
}

// metaLine matches the "**Field:** value" metadata convention.
var metaLine = regexp.MustCompile(`(?m)^\*\*(\w[\w ]*):\*\*\s*(.*)$`)

// titleLine matches the first H1 heading.
var titleLine = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// ParseMeta recovers title, category, and tags from document text.
// Missing fields stay zero; nothing fails.
func ParseMeta(text string) (title string, category Category, tags []string) {
	if m := titleLine.FindStringSubmatch(text); m != nil {
		title = strings.TrimSpace(m[1])
	}
	for _, m := range metaLine.FindAllStringSubmatch(text, -1) {
		switch strings.ToLower(m[1]) {
		case "category":
			category = Category(strings.TrimSpace(m[2]))
		case "tags":
			tags = SplitTags(m[2])
		}
	}
	return title, category, tags
}

// SplitTags parses a comma-separated tag list, dropping empties.
func SplitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
