// Package hats implements the guided thinking workflows: the Six
// Thinking Hats walkthrough and the knowledge-synthesis stepper.
//
// Both are flat state machines over a fixed step list, persisted as
// session.json under sessions/<kind>/<slug>/. One session per kind may
// be active at a time; completing the final step completes the session,
// and the tool layer turns the collected notes into a knowledge doc.
package hats

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// --- Session kind enum ---

// Kind selects which thinking workflow a session runs.
type Kind string

const (
	KindSixHats   Kind = "six_hats"
	KindSynthesis Kind = "synthesis"
)

// validKinds is the set of allowed session kinds.
var validKinds = map[Kind]bool{
	KindSixHats:   true,
	KindSynthesis: true,
}

// ValidateKind returns an error if the kind is not recognized.
func ValidateKind(k Kind) error {
	if !validKinds[k] {
		return fmt.Errorf("invalid session kind %q: must be one of: six_hats, synthesis", k)
	}
	return nil
}

// --- Session status enum ---

// Status tracks the overall lifecycle of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// --- Core data structures ---

// StepEntry tracks progress for a single step within a session.
type StepEntry struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // pending | in_progress | completed
	Notes       string `json:"notes,omitempty"`
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Session is the root data structure for a thinking workflow, persisted
// as session.json.
type Session struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Slug        string      `json:"slug"`
	Topic       string      `json:"topic"`
	Steps       []StepEntry `json:"steps"`
	CurrentStep string      `json:"current_step"`
	Status      Status      `json:"status"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// NewSession builds a fresh active session for the given kind and
// topic, with the first step already in progress.
func NewSession(kind Kind, topic string) (*Session, error) {
	flow, err := StepFlow(kind)
	if err != nil {
		return nil, err
	}

	now := timeNow().UTC().Format("2006-01-02T15:04:05Z07:00")
	steps := make([]StepEntry, len(flow))
	for i, name := range flow {
		steps[i] = StepEntry{Name: name, Status: "pending"}
	}
	steps[0].Status = "in_progress"
	steps[0].StartedAt = now

	return &Session{
		ID:          uuid.New().String(),
		Kind:        kind,
		Slug:        Slugify(topic),
		Topic:       topic,
		Steps:       steps,
		CurrentStep: flow[0],
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// --- Slug generation ---

const maxSlugLen = 50

// Slugify converts a session topic into a filesystem-safe slug.
// Example: "Should we adopt feature flags?" → "should-we-adopt-feature-flags"
//
// Rules:
//   - Lowercase
//   - Spaces and underscores become hyphens
//   - Non-alphanumeric characters (except hyphens) are removed
//   - Consecutive hyphens are collapsed
//   - Leading/trailing hyphens are trimmed
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Empty input returns "unnamed-session"
func Slugify(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return "unnamed-session"
	}

	s := strings.ToLower(strings.TrimSpace(topic))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")

	if slug == "" {
		return "unnamed-session"
	}

	if len(slug) <= maxSlugLen {
		return slug
	}

	// Truncate at word boundary if possible.
	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}

	return strings.TrimRight(truncated, "-")
}
