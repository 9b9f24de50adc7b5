package timeline

import (
	"sort"

	"github.com/taibuivan/lineage/internal/core/event"
)

// OverflowThreshold is the number of entries a year can show before it is
// flagged as overflowing.
const OverflowThreshold = 2

// Markers prefixed to the titles of events spanning several years.
const (
	StartMarker = ">> "
	EndMarker   = "<< "
)

// Entry is one appearance of an event in a year.
type Entry struct {
	EventID      string `json:"event_id"`
	Title        string `json:"title"`
	DisplayTitle string `json:"display_title"`
	StartYear    int    `json:"start_year"`
	EndYear      int    `json:"end_year"`
	MultiYear    bool   `json:"is_multi_year"`
	IsStart      bool   `json:"is_start"`
	IsEnd        bool   `json:"is_end"`
}

// YearGroup collects the entries of one year by column.
type YearGroup struct {
	Year        int     `json:"year"`
	Personal    []Entry `json:"personal"`
	World       []Entry `json:"world"`
	Country     []Entry `json:"country"`
	Local       []Entry `json:"local"`
	TotalCount  int     `json:"total_count"`
	HasOverflow bool    `json:"has_overflow"`
}

func (g *YearGroup) column(category event.Category) *[]Entry {
	switch category {
	case event.CategoryPerson:
		return &g.Personal
	case event.CategoryWorld:
		return &g.World
	case event.CategoryCountry:
		return &g.Country
	case event.CategoryLocal:
		return &g.Local
	}
	panic("timeline: unknown category " + category.String())
}

/*
GroupByYear buckets events by the year they start in.

Description: An event whose end year differs from its start year appears
twice: in its start year titled with [StartMarker] and in its end year titled
with [EndMarker]. Undated events are skipped. Years are returned in ascending
order and entries keep their input order within a column.
*/
func GroupByYear(events Categorised) []YearGroup {
	byYear := make(map[int]*YearGroup)
	bucket := func(year int) *YearGroup {
		group, ok := byYear[year]
		if !ok {
			group = &YearGroup{
				Year:     year,
				Personal: []Entry{},
				World:    []Entry{},
				Country:  []Entry{},
				Local:    []Entry{},
			}
			byYear[year] = group
		}
		return group
	}

	columns := []struct {
		category event.Category
		events   []*event.Event
	}{
		{event.CategoryPerson, events.Personal},
		{event.CategoryLocal, events.Local},
		{event.CategoryCountry, events.Country},
		{event.CategoryWorld, events.World},
	}

	for _, column := range columns {
		for _, e := range column.events {
			for _, entry := range entries(e) {
				group := bucket(entry.year)
				target := group.column(column.category)
				*target = append(*target, entry.Entry)
				group.TotalCount++
			}
		}
	}

	groups := make([]YearGroup, 0, len(byYear))
	for _, group := range byYear {
		group.HasOverflow = group.TotalCount > OverflowThreshold
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Year < groups[j].Year })
	return groups
}

type placedEntry struct {
	Entry
	year int
}

// entries places e in its start year and, for multi-year events, its end year.
func entries(e *event.Event) []placedEntry {
	start, ok := e.StartYear()
	if !ok {
		return nil
	}
	end, _ := e.EndYear()

	base := Entry{EventID: e.ID, Title: e.Title, StartYear: start, EndYear: end}
	if end == start {
		base.DisplayTitle = e.Title
		base.IsStart = true
		return []placedEntry{{Entry: base, year: start}}
	}

	base.MultiYear = true
	opening, closing := base, base
	opening.DisplayTitle = StartMarker + e.Title
	opening.IsStart = true
	closing.DisplayTitle = EndMarker + e.Title
	closing.IsEnd = true
	return []placedEntry{{Entry: opening, year: start}, {Entry: closing, year: end}}
}
