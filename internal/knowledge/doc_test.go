package knowledge

import (
	"reflect"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Retry Budgets", "retry-budgets"},
		{"punctuation collapsed", "Don't do this!!", "don-t-do-this"},
		{"mixed case lowered", "SQLite WAL Mode", "sqlite-wal-mode"},
		{"leading and trailing noise trimmed", "  --hello--  ", "hello"},
		{"empty falls back", "", "unnamed-doc"},
		{"symbols only falls back", "!@#$%", "unnamed-doc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_TruncatesAtWordBoundary(t *testing.T) {
	long := "this is a very long knowledge document title that exceeds the maximum slug length limit"
	slug := Slugify(long)

	if len(slug) > maxSlugLen {
		t.Errorf("slug length %d exceeds max %d", len(slug), maxSlugLen)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("slug ends with hyphen: %q", slug)
	}
	// Truncation should not cut a word in half.
	lastWord := slug[strings.LastIndex(slug, "-")+1:]
	if !strings.Contains(long, lastWord) {
		t.Errorf("last slug word %q not a word of the title", lastWord)
	}
}

func TestValidateCategory(t *testing.T) {
	for _, c := range CategoryValues() {
		if err := ValidateCategory(Category(c)); err != nil {
			t.Errorf("ValidateCategory(%q) failed: %v", c, err)
		}
	}

	if err := ValidateCategory("folklore"); err == nil {
		t.Error("ValidateCategory should reject unknown categories")
	}
	if err := ValidateCategory(""); err == nil {
		t.Error("ValidateCategory should reject the empty category")
	}
}

func TestParseMeta(t *testing.T) {
	text := "# Connection Pool Sizing\n\n" +
		"**Category:** pattern\n" +
		"**Tags:** database, performance, tuning\n" +
		"**Created:** 2026-08-20 10:00:00\n\n" +
		"Pools should be sized from the database side.\n"

	title, category, tags := ParseMeta(text)
	if title != "Connection Pool Sizing" {
		t.Errorf("title = %q", title)
	}
	if category != CategoryPattern {
		t.Errorf("category = %q", category)
	}
	if !reflect.DeepEqual(tags, []string{"database", "performance", "tuning"}) {
		t.Errorf("tags = %v", tags)
	}
}

func TestParseMeta_MissingFieldsStayZero(t *testing.T) {
	title, category, tags := ParseMeta("just some text without structure")
	if title != "" || category != "" || tags != nil {
		t.Errorf("expected zero values, got %q %q %v", title, category, tags)
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain list", "a, b, c", []string{"a", "b", "c"}},
		{"extra whitespace", "  a ,b,  c  ", []string{"a", "b", "c"}},
		{"empty pieces dropped", "a,,b,", []string{"a", "b"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitTags(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTags(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
