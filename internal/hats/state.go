package hats

import "fmt"

// --- State machine over the session step list ---
//
// Step order is read from Session.Steps, set at creation time from the
// kind's flow. There is no skipping and no going back; a session either
// walks every step or is abandoned.

// CurrentStepIndex returns the ordinal position of the current step
// within the session's step list, or -1 if not found.
func CurrentStepIndex(s *Session) int {
	for i, entry := range s.Steps {
		if entry.Name == s.CurrentStep {
			return i
		}
	}
	return -1
}

// IsLastStep returns true if the current step is the final one.
func IsLastStep(s *Session) bool {
	idx := CurrentStepIndex(s)
	return idx >= 0 && idx == len(s.Steps)-1
}

// CanAdvance checks whether the session can move past the current step.
func CanAdvance(s *Session) error {
	if s.Status != StatusActive {
		return fmt.Errorf("session %q is not active (status: %s)", s.Slug, s.Status)
	}

	idx := CurrentStepIndex(s)
	if idx < 0 {
		return fmt.Errorf("unknown current step %q in session %q", s.CurrentStep, s.Slug)
	}

	if idx >= len(s.Steps)-1 {
		return fmt.Errorf("already at the final step %q in session %q", s.CurrentStep, s.Slug)
	}

	return nil
}

// Advance records notes for the current step, marks it completed, and
// promotes the next step to in_progress.
func Advance(s *Session, notes string) error {
	if err := CanAdvance(s); err != nil {
		return err
	}

	idx := CurrentStepIndex(s)
	now := timeNow().UTC().Format("2006-01-02T15:04:05Z07:00")

	s.Steps[idx].Notes = notes
	s.Steps[idx].Status = "completed"
	s.Steps[idx].CompletedAt = now

	nextIdx := idx + 1
	s.Steps[nextIdx].Status = "in_progress"
	s.Steps[nextIdx].StartedAt = now

	s.CurrentStep = s.Steps[nextIdx].Name
	s.UpdatedAt = now

	return nil
}

// Complete records notes for the final step and marks the whole session
// completed. Only valid when the session sits on its last step.
func Complete(s *Session, notes string) error {
	if s.Status != StatusActive {
		return fmt.Errorf("session %q is not active (status: %s)", s.Slug, s.Status)
	}

	idx := CurrentStepIndex(s)
	if idx < 0 {
		return fmt.Errorf("unknown current step %q in session %q", s.CurrentStep, s.Slug)
	}

	if !IsLastStep(s) {
		return fmt.Errorf("cannot conclude session %q: not at the final step (current: %s)", s.Slug, s.CurrentStep)
	}

	now := timeNow().UTC().Format("2006-01-02T15:04:05Z07:00")

	s.Steps[idx].Notes = notes
	s.Steps[idx].Status = "completed"
	s.Steps[idx].CompletedAt = now

	s.Status = StatusCompleted
	s.UpdatedAt = now

	return nil
}
