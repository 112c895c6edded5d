package combine

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"

	"github.com/combcal/combcal/internal/model"
)

// maxOccurrencesPerSeries caps recurrence expansion during merging so
// an unbounded rule cannot stall the request.
const maxOccurrencesPerSeries = 1000

// MergeRelated reconciles recurring series that some providers split
// into several event fragments sharing a RELATED-TO value (typically
// around a daylight-saving transition). Each group of two or more
// fragments collapses into its first member, which loses its rule and
// revision marker and instead carries the union of every fragment's
// concrete occurrences as an explicit RDATE set. Events without a
// linkage value, and singleton groups, pass through unchanged.
func MergeRelated(events []model.Event) []model.Event {
	groups := make(map[string][]model.Event)
	for _, ev := range events {
		if ev.RelatedTo != "" {
			groups[ev.RelatedTo] = append(groups[ev.RelatedTo], ev)
		}
	}

	out := make([]model.Event, 0, len(events))
	emitted := make(map[string]bool)

	for _, ev := range events {
		key := ev.RelatedTo
		if key == "" || len(groups[key]) == 1 {
			out = append(out, ev)
			continue
		}
		if emitted[key] {
			continue
		}
		emitted[key] = true
		out = append(out, mergeGroup(groups[key]))
	}

	return out
}

// mergeGroup collapses one fragment group into its first member.
func mergeGroup(members []model.Event) model.Event {
	seen := make(map[int64]struct{})
	occurrences := make([]time.Time, 0)

	for _, m := range members {
		for _, t := range expandOccurrences(m) {
			key := t.Unix()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			occurrences = append(occurrences, t)
		}
	}
	sort.Slice(occurrences, func(i, j int) bool { return occurrences[i].Before(occurrences[j]) })

	rep := members[0]
	rep.RRule = ""
	rep.Sequence = ""

	kind := model.KindZoned
	if rep.Start != nil {
		kind = rep.Start.Kind
	}
	rep.RDates = make([]model.DateTime, len(occurrences))
	for i, t := range occurrences {
		rep.RDates[i] = model.DateTime{Kind: kind, Time: t}
	}

	return rep
}

// expandOccurrences lists the concrete occurrence timestamps a fragment
// implies: its recurrence rule expanded from its own start, or just the
// start itself when there is no rule.
func expandOccurrences(ev model.Event) []time.Time {
	if ev.Start == nil {
		return nil
	}
	if ev.RRule == "" {
		return []time.Time{ev.Start.Time}
	}

	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		log.WithFields(log.Fields{"uid": ev.UID, "rrule": ev.RRule}).WithError(err).Warn("skipping unparseable RRULE during series merge")
		return []time.Time{ev.Start.Time}
	}
	r.DTStart(ev.Start.Time)

	out := make([]time.Time, 0)
	next := r.Iterator()
	for len(out) < maxOccurrencesPerSeries {
		t, ok := next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	if len(out) == maxOccurrencesPerSeries {
		log.WithFields(log.Fields{"uid": ev.UID, "cap": maxOccurrencesPerSeries}).Warn("recurrence expansion truncated at cap")
	}
	return out
}
