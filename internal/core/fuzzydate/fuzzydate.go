// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fuzzydate interprets genealogical date text.

Dates in GEDCOM sources are frequently partial ("JAN 1900"), qualified
("ABT 1850", "BEF 1925") or expressed as ranges ("BET 1900 AND 1910").
This package turns such text into a structured [Attributes] value ([Parse])
and derives three Gregorian bounds from it ([Resolve]):

  - Earliest / Latest: the uncertainty window, used for range-overlap queries.
  - SortKey: the single value every chronological comparison uses.

Both functions are pure and safe for concurrent use. Persistence of the
resulting [FuzzyDate] (deduplicated by original text) lives in the
repository types of this package.
*/
package fuzzydate

import (
	"fmt"
	"time"
)

// # Calendar Systems

// CalendarType is the calendar system a date text declared.
type CalendarType uint8

const (
	CalendarGregorian CalendarType = iota
	CalendarJulian
	CalendarHebrew
	CalendarFrenchRepublican
)

var calendarNames = [...]string{
	CalendarGregorian:        "gregorian",
	CalendarJulian:           "julian",
	CalendarHebrew:           "hebrew",
	CalendarFrenchRepublican: "french_republican",
}

func (c CalendarType) String() string {
	if int(c) < len(calendarNames) {
		return calendarNames[c]
	}
	return fmt.Sprintf("calendar(%d)", uint8(c))
}

// MarshalText implements [encoding.TextMarshaler].
func (c CalendarType) MarshalText() ([]byte, error) {
	if int(c) >= len(calendarNames) {
		return nil, fmt.Errorf("fuzzydate: unknown calendar type %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *CalendarType) UnmarshalText(text []byte) error {
	parsed, err := ParseCalendarType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCalendarType maps a stored calendar name back to its [CalendarType].
func ParseCalendarType(name string) (CalendarType, error) {
	for i, candidate := range calendarNames {
		if candidate == name {
			return CalendarType(i), nil
		}
	}
	return CalendarGregorian, fmt.Errorf("fuzzydate: unknown calendar type %q", name)
}

// # Interpretation Modes

// DateType is the interpretation mode of a date text.
type DateType uint8

const (
	TypeExact DateType = iota
	TypeAbout
	TypeBefore
	TypeAfter
	TypeEstimated
	TypeCalculated
	TypeBetween
	TypeFromTo
	TypeYear
	TypeMonthYear
)

var dateTypeNames = [...]string{
	TypeExact:      "exact",
	TypeAbout:      "about",
	TypeBefore:     "before",
	TypeAfter:      "after",
	TypeEstimated:  "estimated",
	TypeCalculated: "calculated",
	TypeBetween:    "between",
	TypeFromTo:     "from_to",
	TypeYear:       "year",
	TypeMonthYear:  "month_year",
}

func (t DateType) String() string {
	if int(t) < len(dateTypeNames) {
		return dateTypeNames[t]
	}
	return fmt.Sprintf("date_type(%d)", uint8(t))
}

// MarshalText implements [encoding.TextMarshaler].
func (t DateType) MarshalText() ([]byte, error) {
	if int(t) >= len(dateTypeNames) {
		return nil, fmt.Errorf("fuzzydate: unknown date type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *DateType) UnmarshalText(text []byte) error {
	parsed, err := ParseDateType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseDateType maps a stored date type name back to its [DateType].
func ParseDateType(name string) (DateType, error) {
	for i, candidate := range dateTypeNames {
		if candidate == name {
			return DateType(i), nil
		}
	}
	return TypeExact, fmt.Errorf("fuzzydate: unknown date type %q", name)
}

// IsRange reports whether the type carries an end date.
func (t DateType) IsRange() bool {
	return t == TypeBetween || t == TypeFromTo
}

// # Structured Representation

// Attributes is the structured form of a date text, as produced by [Parse].
//
// Month and day are nil for coarser precision. The End fields are only
// populated for [TypeBetween] and [TypeFromTo].
type Attributes struct {
	OriginalText string
	Calendar     CalendarType
	Type         DateType

	Year  *int
	Month *int
	Day   *int

	YearEnd  *int
	MonthEnd *int
	DayEnd   *int
}

// Bounds holds the derived Gregorian dates of a resolved date.
//
// Any field may be nil when its calendar arithmetic produced an invalid
// date. A nil bound excludes the date from the queries relying on it.
type Bounds struct {
	Earliest *time.Time
	Latest   *time.Time
	SortKey  *time.Time
}

// FuzzyDate is a parsed and resolved genealogical date.
//
// It is created once, when an event's date text is first seen, and never
// updated. Two FuzzyDates with the same OriginalText are duplicates.
type FuzzyDate struct {
	ID string
	Attributes
	Bounds
	CreatedAt time.Time
}

// New parses and resolves raw in one step.
//
// It returns false when raw is blank. A date without a year is returned
// with empty bounds.
func New(raw string) (*FuzzyDate, bool) {
	attrs, ok := Parse(raw)
	if !ok {
		return nil, false
	}

	bounds, _ := Resolve(attrs)
	return &FuzzyDate{Attributes: attrs, Bounds: bounds}, true
}

// SortYear returns the year of the sort key.
func (d *FuzzyDate) SortYear() (int, bool) {
	if d == nil || d.SortKey == nil {
		return 0, false
	}
	return d.SortKey.Year(), true
}

// Compare orders two dates by sort key.
//
// Dates without a sort key (including nil dates) sort after every dated one
// and compare equal to each other.
func Compare(a, b *FuzzyDate) int {
	var keyA, keyB *time.Time
	if a != nil {
		keyA = a.SortKey
	}
	if b != nil {
		keyB = b.SortKey
	}

	switch {
	case keyA == nil && keyB == nil:
		return 0
	case keyA == nil:
		return 1
	case keyB == nil:
		return -1
	}
	return keyA.Compare(*keyB)
}
