// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package timeline assembles a person's events with the world, country and
// local history of their lifetime, grouped by year.
package timeline

import "github.com/taibuivan/lineage/internal/core/event"

// Range is an inclusive span of years.
type Range struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// Override pins either end of the range instead of deriving it from events.
// Overlapping selects context events whose uncertainty window touches the
// range rather than those whose sort key falls in it.
type Override struct {
	FromYear    *int
	ToYear      *int
	Overlapping bool
}

// Categorised holds events split by the column they are shown in.
type Categorised struct {
	Personal []*event.Event
	World    []*event.Event
	Country  []*event.Event
	Local    []*event.Event
}

// Timeline is the rendered view of one person's life in context.
type Timeline struct {
	PersonID string            `json:"person_id"`
	Range    *Range            `json:"range"`
	Personal []*event.Response `json:"personal"`
	World    []*event.Response `json:"world"`
	Country  []*event.Response `json:"country"`
	Local    []*event.Response `json:"local"`
	Years    []YearGroup       `json:"years"`
}
