package combine

import "github.com/combcal/combcal/internal/model"

// staging collects events from sources with deduplication enabled. It
// keeps the last value written per final identifier while remembering
// the position at which the identifier was first inserted, so the
// emission order is deterministic: last value per key, in
// first-insertion-position order.
type staging struct {
	index  map[string]int
	events []model.Event
}

func newStaging() *staging {
	return &staging{index: make(map[string]int)}
}

// Put stages an event under its final identifier; a later event with
// the same identifier overwrites an earlier one. This models a second
// feed from the same logical source legitimately superseding entries
// from a first.
func (s *staging) Put(ev model.Event) {
	if i, ok := s.index[ev.UID]; ok {
		s.events[i] = ev
		return
	}
	s.index[ev.UID] = len(s.events)
	s.events = append(s.events, ev)
}

// Events returns the surviving staged events in first-insertion order.
func (s *staging) Events() []model.Event {
	return s.events
}
