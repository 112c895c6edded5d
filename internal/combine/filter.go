package combine

import (
	"errors"
	"time"

	"github.com/combcal/combcal/internal/model"
)

// Selection restricts which configured sources take part in a request.
// A nil show and hide list means all sources are included.
type Selection struct {
	show map[string]struct{}
	hide map[string]struct{}
}

// NewSelection builds a Selection from the request's show/hide lists.
// Supplying both is a parameter error.
func NewSelection(show, hide []string) (Selection, error) {
	if show != nil && hide != nil {
		return Selection{}, paramErr(errors.New("show and hide are mutually exclusive"))
	}
	sel := Selection{}
	if show != nil {
		sel.show = toSet(show)
	}
	if hide != nil {
		sel.hide = toSet(hide)
	}
	return sel, nil
}

// Includes reports whether the source with the given id takes part.
func (s Selection) Includes(id string) bool {
	if s.show != nil {
		_, ok := s.show[id]
		return ok
	}
	if s.hide != nil {
		_, ok := s.hide[id]
		return !ok
	}
	return true
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// KeepHistorical reports whether ev survives the retention window of
// `days` days relative to `today` (a UTC calendar day). Events without
// an end, and recurring events regardless of age, are always kept; an
// end date exactly on the boundary is kept as well.
func KeepHistorical(ev model.Event, today time.Time, days int) bool {
	if days <= 0 || ev.End == nil {
		return true
	}
	if ev.RRule != "" {
		return true
	}
	cutoff := today.AddDate(0, 0, -days)
	return !ev.End.Date().Before(cutoff)
}
