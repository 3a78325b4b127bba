package moderation

import (
	"slices"
	"sync"
	"time"

	"bazar-bot/internal/listing"
)

type pickerKey struct {
	moderatorID  int64
	submissionID int64
}

type picker struct {
	tags    []string
	touched time.Time
}

// PendingDeny is a deny click waiting for the moderator's reason text.
// ChatID and MessageID locate the moderation control message to update.
type PendingDeny struct {
	SubmissionID int64
	ChatID       int64
	MessageID    int
	touched      time.Time
}

// Selections is the ephemeral per-moderator state: open hashtag pickers and
// outstanding deny prompts. Entries are keyed by moderator, so moderators
// never contend for the same entry.
type Selections struct {
	mu      sync.Mutex
	pickers map[pickerKey]*picker
	denies  map[int64]PendingDeny
	now     func() time.Time
}

func NewSelections() *Selections {
	return &Selections{
		pickers: make(map[pickerKey]*picker),
		denies:  make(map[int64]PendingDeny),
		now:     time.Now,
	}
}

// OpenPicker starts an empty selection, or returns the current one if the
// picker is already open.
func (s *Selections) OpenPicker(moderatorID, submissionID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pickerKey{moderatorID, submissionID}
	p, ok := s.pickers[key]
	if !ok {
		p = &picker{}
		s.pickers[key] = p
	}
	p.touched = s.now()
	return slices.Clone(p.tags)
}

// Toggle flips tag in an open picker. ok is false if no picker is open.
func (s *Selections) Toggle(moderatorID, submissionID int64, tag string) (tags []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pickers[pickerKey{moderatorID, submissionID}]
	if !ok {
		return nil, false
	}
	p.tags = listing.ToggleTag(p.tags, tag)
	p.touched = s.now()
	return slices.Clone(p.tags), true
}

func (s *Selections) Picked(moderatorID, submissionID int64) (tags []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pickers[pickerKey{moderatorID, submissionID}]
	if !ok {
		return nil, false
	}
	return slices.Clone(p.tags), true
}

func (s *Selections) ClosePicker(moderatorID, submissionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pickers, pickerKey{moderatorID, submissionID})
}

// SetPendingDeny records a deny prompt, replacing any earlier one from the same moderator.
func (s *Selections) SetPendingDeny(moderatorID int64, d PendingDeny) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.touched = s.now()
	s.denies[moderatorID] = d
}

// TakePendingDeny removes and returns the moderator's outstanding deny prompt.
func (s *Selections) TakePendingDeny(moderatorID int64) (PendingDeny, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.denies[moderatorID]
	if ok {
		delete(s.denies, moderatorID)
	}
	return d, ok
}

func (s *Selections) HasPendingDeny(moderatorID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.denies[moderatorID]
	return ok
}

// Sweep drops pickers and deny prompts untouched since before cutoff.
func (s *Selections) Sweep(cutoff time.Time) (pickers, denies int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, p := range s.pickers {
		if p.touched.Before(cutoff) {
			delete(s.pickers, key)
			pickers++
		}
	}
	for id, d := range s.denies {
		if d.touched.Before(cutoff) {
			delete(s.denies, id)
			denies++
		}
	}
	return pickers, denies
}
