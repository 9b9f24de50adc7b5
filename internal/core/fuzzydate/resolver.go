// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fuzzydate

import "time"

// UncertaintyMargin is the number of years an open-ended BEF/AFT date is
// widened by for range-overlap purposes.
const UncertaintyMargin = 50

// Bounds are only produced for years inside this window, the range of a
// Postgres DATE that a four digit year can name.
const (
	MinYear = 1
	MaxYear = 9999
)

// Resolve computes the Gregorian bounds of attrs.
//
// It returns false when attrs has no year. Each bound is computed on its
// own; a bound whose calendar arithmetic is invalid (e.g. "31 APR 1900") is
// left nil while the others are still filled in.
//
// # Bounds by type
//
//	before:         earliest = boundary - 50y, latest = day before boundary, sort = boundary
//	after:          earliest = day after end of boundary, latest = end + 50y, sort = boundary
//	between/from_to: earliest = start of A, latest = end of B (or of A), sort = earliest
//	others:         earliest = start of date, latest = end of date, sort = earliest
func Resolve(attrs Attributes) (Bounds, bool) {
	if attrs.Year == nil {
		return Bounds{}, false
	}

	var bounds Bounds
	switch attrs.Type {
	case TypeBefore:
		bounds = resolveBefore(attrs)
	case TypeAfter:
		bounds = resolveAfter(attrs)
	case TypeBetween, TypeFromTo:
		bounds = resolveRange(attrs)
	case TypeExact, TypeAbout, TypeEstimated, TypeCalculated, TypeYear, TypeMonthYear:
		bounds = Bounds{
			Earliest: startOf(*attrs.Year, attrs.Month, attrs.Day),
			Latest:   endOf(*attrs.Year, attrs.Month, attrs.Day),
		}
		bounds.SortKey = bounds.Earliest
	default:
		return Bounds{}, false
	}

	return bounds, true
}

func resolveBefore(attrs Attributes) Bounds {
	year := *attrs.Year
	bounds := Bounds{
		Earliest: startOf(year-UncertaintyMargin, attrs.Month, attrs.Day),
		SortKey:  startOf(year, attrs.Month, attrs.Day),
	}

	if bounds.SortKey != nil {
		bounds.Latest = addDays(*bounds.SortKey, -1)
	} else {
		bounds.SortKey = bounds.Earliest
	}
	return bounds
}

func resolveAfter(attrs Attributes) Bounds {
	year := *attrs.Year
	bounds := Bounds{
		Latest:  endOf(year+UncertaintyMargin, attrs.Month, attrs.Day),
		SortKey: startOf(year, attrs.Month, attrs.Day),
	}

	if boundary := endOf(year, attrs.Month, attrs.Day); boundary != nil {
		bounds.Earliest = addDays(*boundary, 1)
	}
	if bounds.SortKey == nil {
		bounds.SortKey = bounds.Earliest
	}
	return bounds
}

// resolveRange spans from the start of the primary date to the end of the
// end date. When the end date precedes the start the outer envelope of both
// endpoints is used so that Earliest never follows Latest.
func resolveRange(attrs Attributes) Bounds {
	year := *attrs.Year
	bounds := Bounds{
		Earliest: startOf(year, attrs.Month, attrs.Day),
		Latest:   endOf(year, attrs.Month, attrs.Day),
	}

	if attrs.YearEnd != nil {
		primaryEnd := bounds.Latest
		endStart := startOf(*attrs.YearEnd, attrs.MonthEnd, attrs.DayEnd)
		bounds.Latest = endOf(*attrs.YearEnd, attrs.MonthEnd, attrs.DayEnd)

		if bounds.Earliest != nil && bounds.Latest != nil && bounds.Latest.Before(*bounds.Earliest) {
			bounds.Earliest = earlier(bounds.Earliest, endStart)
			bounds.Latest = later(bounds.Latest, primaryEnd)
		}
	}

	bounds.SortKey = bounds.Earliest
	return bounds
}

func earlier(a, b *time.Time) *time.Time {
	if b != nil && b.Before(*a) {
		return b
	}
	return a
}

func later(a, b *time.Time) *time.Time {
	if b != nil && b.After(*a) {
		return b
	}
	return a
}

// startOf is (year, month or 1, day or 1).
func startOf(year int, month, day *int) *time.Time {
	m := valueOr(month, 1)
	return civil(year, m, valueOr(day, 1))
}

// endOf is (year, month or 12, day or last day of that month).
func endOf(year int, month, day *int) *time.Time {
	m := valueOr(month, 12)
	if day != nil {
		return civil(year, m, *day)
	}

	last, ok := daysIn(year, m)
	if !ok {
		return nil
	}
	return civil(year, m, last)
}

// civil builds a UTC midnight date, or nil when the components do not name
// a real calendar day.
func civil(year, month, day int) *time.Time {
	if year < MinYear || year > MaxYear {
		return nil
	}

	last, ok := daysIn(year, month)
	if !ok || day < 1 || day > last {
		return nil
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &date
}

// daysIn returns the length of month in year, honoring leap years.
func daysIn(year, month int) (int, bool) {
	if month < 1 || month > 12 {
		return 0, false
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day(), true
}

func addDays(date time.Time, days int) *time.Time {
	shifted := date.AddDate(0, 0, days)
	if year := shifted.Year(); year < MinYear || year > MaxYear {
		return nil
	}
	return &shifted
}

func valueOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
