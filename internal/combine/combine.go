// Package combine implements the event transformation pipeline that
// turns several remote calendar feeds into one combined feed:
// fetch → filter → transform → deduplicate → merge-recurrence →
// assemble. Everything is computed fresh per request; no state
// survives between invocations.
package combine

import (
	"context"
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/ics"
	"github.com/combcal/combcal/internal/model"
	"github.com/combcal/combcal/internal/utils"
)

// SourceFetcher retrieves the raw ICS body for one source.
// *ics.Fetcher is the production implementation.
type SourceFetcher interface {
	Fetch(ctx context.Context, src model.Source) ([]byte, error)
}

// Options is the caller-supplied configuration for one request.
type Options struct {
	Sources []model.Source
	// Name becomes the combined calendar's display name.
	Name string
	// DaysHistory is the historical retention window in days; zero
	// disables historical filtering.
	DaysHistory int
}

// Request carries the request-time source selection. A nil list means
// no restriction of that polarity; supplying both is a parameter
// error.
type Request struct {
	Show []string
	Hide []string
}

// Combine runs the full pipeline and returns the serialized combined
// calendar. The first failure aborts the whole request; no partial
// output is ever returned.
func Combine(ctx context.Context, fetcher SourceFetcher, clock utils.Clock, opts Options, req Request) (string, error) {
	if err := validateSources(opts.Sources); err != nil {
		return "", err
	}
	sel, err := NewSelection(req.Show, req.Hide)
	if err != nil {
		return "", err
	}

	now := clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	events := make([]model.Event, 0)
	staged := newStaging()
	tzdefs := make([]*ical.VTimezone, 0)

	for _, src := range opts.Sources {
		if !sel.Includes(src.ID) {
			continue
		}

		body, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return "", fetchErr(src.ID, err)
		}
		res, err := ics.Parse(src, body)
		if err != nil {
			return "", parseErr(src.ID, err)
		}
		tzdefs = append(tzdefs, res.Timezones...)

		kept, dropped := 0, 0
		for _, raw := range res.Events {
			if !KeepHistorical(raw, today, opts.DaysHistory) {
				continue
			}
			ev, ok := Transform(src, raw)
			if !ok {
				dropped++
				continue
			}
			kept++
			if src.Dedup {
				staged.Put(ev)
			} else {
				events = append(events, ev)
			}
		}

		log.WithFields(log.Fields{
			"source":  src.ID,
			"kept":    kept,
			"dropped": dropped,
		}).Info("processed calendar source")
	}

	events = append(events, staged.Events()...)
	events = MergeRelated(events)

	return Assemble(opts.Name, events, tzdefs, today), nil
}

// validateSources runs before any network access: a source without an
// identifier, or with a duplicated one, is a fatal configuration
// error.
func validateSources(sources []model.Source) error {
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if s.ID == "" {
			return configErr(errors.New("source is missing an id"))
		}
		if seen[s.ID] {
			return configErr(fmt.Errorf("duplicate source id %q", s.ID))
		}
		seen[s.ID] = true
	}
	return nil
}
