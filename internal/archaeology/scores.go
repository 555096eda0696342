// scores.go holds the heuristic scorers for knowledge documents.
// They are regex/keyword heuristics over raw markdown, not semantic
// analysis. Scores feed the survey report and the catalog resource.
package archaeology

import (
	"regexp"
	"strings"
)

// Dimension represents one axis of document completeness.
// Each dimension contributes its weight to the overall score.
type Dimension struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`  // relative importance (1-10)
	Covered     bool   `json:"covered"` // whether the document addresses this axis
	Score       int    `json:"score"`   // 0-100 for this dimension
}

var (
	headingLine = regexp.MustCompile(`(?m)^##\s+`)
	linkMark    = regexp.MustCompile(`\]\(`)
	metaMark    = regexp.MustCompile(`(?m)^\*\*\w[\w ]*:\*\*`)
)

// EvaluateCompleteness scores a document against the standard
// dimensions. The heuristics are deliberately shallow: they reward the
// shape of a finished document (prose intro, sections, examples,
// outcomes), not its substance.
func EvaluateCompleteness(text string) []Dimension {
	dims := []Dimension{
		{
			Name:        "intro",
			Description: "Opens with prose before the first section heading",
			Weight:      7,
		},
		{
			Name:        "structure",
			Description: "Broken into sections with ## headings",
			Weight:      8,
		},
		{
			Name:        "examples",
			Description: "Contains fenced code blocks or concrete examples",
			Weight:      9,
		},
		{
			Name:        "outcomes",
			Description: "Links out or records decisions and results",
			Weight:      6,
		},
	}

	dims[0].Score = clampScore(len(introProse(text)) / 2)
	dims[1].Score = clampScore(len(headingLine.FindAllString(text, -1)) * 50)
	dims[2].Score = clampScore(strings.Count(text, "```") / 2 * 60)
	dims[3].Score = clampScore(len(linkMark.FindAllString(text, -1)) * 50)

	for i := range dims {
		dims[i].Covered = dims[i].Score > 0
	}
	return dims
}

// CompletenessScore computes the weighted overall score (0-100).
func CompletenessScore(text string) int {
	return CalculateScore(EvaluateCompleteness(text))
}

// CalculateScore computes the weighted overall score from dimensions.
func CalculateScore(dimensions []Dimension) int {
	totalWeight := 0
	weightedSum := 0

	for _, d := range dimensions {
		totalWeight += d.Weight
		weightedSum += d.Score * d.Weight
	}

	if totalWeight == 0 {
		return 0
	}

	return weightedSum / totalWeight
}

// UncoveredDimensions returns dimensions the document does not address.
func UncoveredDimensions(dimensions []Dimension) []Dimension {
	var uncovered []Dimension
	for _, d := range dimensions {
		if !d.Covered {
			uncovered = append(uncovered, d)
		}
	}
	return uncovered
}

// introProse returns the prose between the title/metadata block and the
// first ## heading.
func introProse(text string) string {
	body := text
	if loc := headingLine.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	var prose []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || metaMark.MatchString(trimmed) {
			continue
		}
		prose = append(prose, trimmed)
	}
	return strings.Join(prose, " ")
}

// complexityMarkers are terms that usually indicate a topic with moving
// parts worth reading carefully. "serializ" catches both spellings of
// serialize/serialization.
var complexityMarkers = []string{
	"concurrency", "concurrent", "race", "lock", "mutex", "deadlock",
	"cache", "invalidation", "retry", "backoff", "timeout",
	"distributed", "consensus", "replication", "partition",
	"migration", "transaction", "rollback", "idempotent",
	"async", "queue", "protocol", "serializ",
}

// ComplexityScore estimates topic complexity (0-100) from marker-term
// density plus a bonus for sheer length.
func ComplexityScore(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, m := range complexityMarkers {
		hits += strings.Count(lower, m)
	}

	score := hits * 12
	if words > 400 {
		score += 10
	}
	if words > 1500 {
		score += 10
	}
	return clampScore(score)
}

// Readiness labels for knowledge documents.
const (
	ReadinessExperimental = "experimental"
	ReadinessHardening    = "hardening"
	ReadinessProduction   = "production"
)

var (
	productionMarkers = []string{"production", "deployed", "released", "shipped", "stable"}
	hardeningMarkers  = []string{"test", "edge case", "bug", "fix", "review", "benchmark"}
)

// Readiness classifies how battle-tested the documented knowledge is.
// Production markers win outright; otherwise any hardening marker lifts
// the document out of experimental.
func Readiness(text string) string {
	lower := strings.ToLower(text)

	prod := 0
	for _, m := range productionMarkers {
		prod += strings.Count(lower, m)
	}
	hard := 0
	for _, m := range hardeningMarkers {
		hard += strings.Count(lower, m)
	}

	switch {
	case prod > 0 && prod >= hard:
		return ReadinessProduction
	case hard > 0:
		return ReadinessHardening
	default:
		return ReadinessExperimental
	}
}

// DocRef is the slice of a knowledge document that relation detection
// needs: identity, tags, and title.
type DocRef struct {
	Slug  string
	Title string
	Tags  []string
}

// Relation links two documents that appear to cover adjacent ground.
type Relation struct {
	A    string `json:"a"`
	B    string `json:"b"`
	Via  string `json:"via"`  // the shared tag or keyword
	Kind string `json:"kind"` // "tag" | "keyword"
}

// DetectRelations pairs documents sharing a tag, or failing that a
// significant title word. At most one relation is reported per pair,
// with tag matches preferred.
func DetectRelations(docs []DocRef) []Relation {
	var relations []Relation
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if r, ok := relate(docs[i], docs[j]); ok {
				relations = append(relations, r)
			}
		}
	}
	return relations
}

func relate(a, b DocRef) (Relation, bool) {
	for _, ta := range a.Tags {
		for _, tb := range b.Tags {
			if ta != "" && strings.EqualFold(ta, tb) {
				return Relation{A: a.Slug, B: b.Slug, Via: strings.ToLower(ta), Kind: "tag"}, true
			}
		}
	}
	for _, wa := range titleWords(a.Title) {
		for _, wb := range titleWords(b.Title) {
			if wa == wb {
				return Relation{A: a.Slug, B: b.Slug, Via: wa, Kind: "keyword"}, true
			}
		}
	}
	return Relation{}, false
}

// titleWords extracts lowercase words of 5+ runes from a title.
// Short words produce too many coincidental pairs.
func titleWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;()[]{}\"'")
		if len([]rune(w)) >= 5 {
			words = append(words, w)
		}
	}
	return words
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
