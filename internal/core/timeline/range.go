package timeline

import "github.com/taibuivan/lineage/internal/core/event"

// LifespanFallbackYears is the assumed lifetime when the events of a person
// only cover a single year.
const LifespanFallbackYears = 100

/*
CalculateRange derives the years a person's timeline spans.

Description: Explicit override years win. Otherwise the range runs from the
earliest start to the latest end among the person's dated events. When that
evidence does not reach past the start year the end is placed
[LifespanFallbackYears] later.

Returns:
  - Range: The inclusive year span
  - bool: false when no start year is known
*/
func CalculateRange(personal []*event.Event, override Override) (Range, bool) {
	start, hasStart := earliestStart(personal)
	if override.FromYear != nil {
		start, hasStart = *override.FromYear, true
	}
	if !hasStart {
		return Range{}, false
	}

	if override.ToYear != nil {
		return Range{StartYear: start, EndYear: *override.ToYear}, true
	}

	end, hasEnd := latestEnd(personal)
	if !hasEnd || end <= start {
		end = start + LifespanFallbackYears
	}
	return Range{StartYear: start, EndYear: end}, true
}

func earliestStart(events []*event.Event) (int, bool) {
	var earliest int
	found := false
	for _, e := range events {
		if year, ok := e.StartYear(); ok && (!found || year < earliest) {
			earliest, found = year, true
		}
	}
	return earliest, found
}

func latestEnd(events []*event.Event) (int, bool) {
	var latest int
	found := false
	for _, e := range events {
		if year, ok := e.EndYear(); ok && (!found || year > latest) {
			latest, found = year, true
		}
	}
	return latest, found
}
