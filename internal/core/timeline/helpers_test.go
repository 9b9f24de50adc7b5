package timeline_test

import (
	"github.com/taibuivan/lineage/internal/core/event"
	"github.com/taibuivan/lineage/internal/core/fuzzydate"
)

// dated builds an event whose dates are parsed from start and end text.
// A blank end leaves the end date unset.
func dated(id, title string, category event.Category, start, end string) *event.Event {
	e := &event.Event{ID: id, Title: title, Category: category}
	if start != "" {
		e.StartDate, _ = fuzzydate.New(start)
	}
	if end != "" {
		e.EndDate, _ = fuzzydate.New(end)
	}
	return e
}

func personal(id, start, end string) *event.Event {
	e := dated(id, id, event.CategoryPerson, start, end)
	e.PersonIDs = []string{"I1"}
	return e
}
