// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package event manages genealogical and contextual events and the ingestion
// of events extracted from GEDCOM files.
//
// Every event carries an optional start and end [fuzzydate.FuzzyDate]. Events
// are placed on timelines by the sort key of their start date; undated events
// are stored but never appear in date-ordered listings.
package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
	"github.com/taibuivan/lineage/pkg/pagination"
)

// Category classifies whose history an event belongs to.
type Category uint8

const (
	CategoryPerson Category = iota
	CategoryWorld
	CategoryCountry
	CategoryLocal
)

var categoryNames = [...]string{
	CategoryPerson:  "person",
	CategoryWorld:   "world",
	CategoryCountry: "country",
	CategoryLocal:   "local",
}

// ContextCategories are the categories shown around a person's own events.
var ContextCategories = []Category{CategoryWorld, CategoryCountry, CategoryLocal}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// IsContextual reports whether the event describes history outside a family.
func (c Category) IsContextual() bool {
	return c != CategoryPerson
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory is the inverse of [Category.String].
func ParseCategory(name string) (Category, error) {
	for i, candidate := range categoryNames {
		if candidate == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("event: unknown category %q", name)
}

// CategoryNames lists the wire names of every category.
func CategoryNames() []string {
	return append([]string(nil), categoryNames[:]...)
}

// Event is a titled happening with optional fuzzy start and end dates.
type Event struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	Category    Category             `json:"category"`
	CreatorID   string               `json:"creator_id"`
	SourceID    *string              `json:"source_id"`
	PersonIDs   []string             `json:"person_ids"`
	StartDate   *fuzzydate.FuzzyDate `json:"-"`
	EndDate     *fuzzydate.FuzzyDate `json:"-"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// StartYear is the year of the start date's sort key.
func (e *Event) StartYear() (int, bool) {
	return e.StartDate.SortYear()
}

// EndYear is the year of the end date's sort key, falling back to the start.
func (e *Event) EndYear() (int, bool) {
	if year, ok := e.EndDate.SortYear(); ok {
		return year, true
	}
	return e.StartYear()
}

// HasPerson reports whether personID is linked to the event.
func (e *Event) HasPerson(personID string) bool {
	for _, id := range e.PersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// CreateInput is the payload accepted by [Service.Create].
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	SourceID    *string  `json:"source_id"`
	PersonIDs   []string `json:"person_ids"`
}

// ListFilter narrows [Repository.List].
type ListFilter struct {
	Categories []Category
	// FromYear and ToYear bound the start date's sort key, inclusive.
	FromYear *int
	ToYear   *int
	// Overlapping matches the window against the start date's earliest and
	// latest bounds instead of its sort key.
	Overlapping bool
	pagination.Params
}

// GedcomEvent is one event of a person as extracted from a GEDCOM file.
type GedcomEvent struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Place       string `json:"place"`
	Notes       Notes  `json:"notes"`
}

// Notes accepts either a single string or a list of note lines.
type Notes []string

func (n *Notes) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*n = lines
		return nil
	}

	var single *string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == nil {
		*n = nil
		return nil
	}
	*n = Notes{*single}
	return nil
}

func (n Notes) String() string {
	return strings.Join(n, "\n")
}

// ComposeDescription merges the description, place and notes of a GEDCOM
// event into one text, separated by blank lines.
func (g GedcomEvent) ComposeDescription() string {
	var parts []string
	if g.Description != "" {
		parts = append(parts, g.Description)
	}
	if strings.TrimSpace(g.Place) != "" {
		parts = append(parts, "Place: "+g.Place)
	}
	if notes := g.Notes.String(); strings.TrimSpace(notes) != "" {
		parts = append(parts, "Notes: "+notes)
	}
	return strings.Join(parts, "\n\n")
}

// Import outcomes.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
)

// ImportResult reports what happened to one ingested GEDCOM event.
type ImportResult struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	EventID string `json:"event_id,omitempty"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}
