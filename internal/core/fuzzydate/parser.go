// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fuzzydate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// monthNumbers maps GEDCOM month abbreviations to month numbers.
var monthNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4,
	"MAY": 5, "JUN": 6, "JUL": 7, "AUG": 8,
	"SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// calendarMarkers is checked in order against the raw text.
var calendarMarkers = []struct {
	marker   string
	calendar CalendarType
}{
	{"@#DGREGORIAN@", CalendarGregorian},
	{"@#DJULIAN@", CalendarJulian},
	{"@#DHEBREW@", CalendarHebrew},
	{"@#DFRENCH R@", CalendarFrenchRepublican},
}

// modifiers is checked in order; the first matching prefix wins.
var modifiers = []struct {
	pattern  *regexp.Regexp
	dateType DateType
}{
	{regexp.MustCompile(`(?i)^ABT\s+(.+)$`), TypeAbout},
	{regexp.MustCompile(`(?i)^BEF\s+(.+)$`), TypeBefore},
	{regexp.MustCompile(`(?i)^AFT\s+(.+)$`), TypeAfter},
	{regexp.MustCompile(`(?i)^EST\s+(.+)$`), TypeEstimated},
	{regexp.MustCompile(`(?i)^CAL\s+(.+)$`), TypeCalculated},
}

var (
	escapePattern  = regexp.MustCompile(`@#D[\w\s]+@`)
	betweenPattern = regexp.MustCompile(`(?i)^BET\s+(.+)\s+AND\s+(.+)$`)
	fromToPattern  = regexp.MustCompile(`(?i)^FROM\s+(.+)\s+TO\s+(.+)$`)
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
)

// Parse converts a genealogical date text into its structured form.
//
// It returns false when raw is blank. Malformed text is never an error:
// components that cannot be read are left nil.
//
// # Grammar (first match wins)
//
//  1. Calendar escape (@#DJULIAN@ ...) is recorded and stripped.
//  2. BET <A> AND <B> / FROM <A> TO <B> ranges.
//  3. ABT, BEF, AFT, EST, CAL modifiers.
//  4. Bare date, typed by token count (year, month_year, exact).
func Parse(raw string) (Attributes, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Attributes{}, false
	}

	attrs := Attributes{
		OriginalText: text,
		Calendar:     extractCalendar(text),
	}

	working := strings.TrimSpace(escapePattern.ReplaceAllString(text, ""))

	if match := betweenPattern.FindStringSubmatch(working); match != nil {
		attrs.Type = TypeBetween
		attrs.Year, attrs.Month, attrs.Day = parseComponents(match[1])
		attrs.YearEnd, attrs.MonthEnd, attrs.DayEnd = parseComponents(match[2])
		return attrs, true
	}

	if match := fromToPattern.FindStringSubmatch(working); match != nil {
		attrs.Type = TypeFromTo
		attrs.Year, attrs.Month, attrs.Day = parseComponents(match[1])
		attrs.YearEnd, attrs.MonthEnd, attrs.DayEnd = parseComponents(match[2])
		return attrs, true
	}

	for _, modifier := range modifiers {
		match := modifier.pattern.FindStringSubmatch(working)
		if match == nil {
			continue
		}
		attrs.Type = modifier.dateType
		attrs.Year, attrs.Month, attrs.Day = parseComponents(match[1])
		return attrs, true
	}

	attrs.Type = inferType(working)
	attrs.Year, attrs.Month, attrs.Day = parseComponents(working)
	return attrs, true
}

func extractCalendar(text string) CalendarType {
	for _, candidate := range calendarMarkers {
		if strings.Contains(text, candidate.marker) {
			return candidate.calendar
		}
	}
	return CalendarGregorian
}

// parseComponents reads "YYYY", "MON YYYY" or "D MON YYYY".
// Any other token count leaves every component nil.
func parseComponents(text string) (year, month, day *int) {
	parts := strings.Fields(text)

	switch len(parts) {
	case 1:
		return parseInt(parts[0]), nil, nil
	case 2:
		return parseInt(parts[1]), parseMonth(parts[0]), nil
	case 3:
		return parseInt(parts[2]), parseMonth(parts[1]), parseInt(parts[0])
	default:
		return nil, nil, nil
	}
}

func inferType(text string) DateType {
	switch len(strings.Fields(text)) {
	case 1:
		return TypeYear
	case 2:
		return TypeMonthYear
	default:
		return TypeExact
	}
}

func parseMonth(token string) *int {
	month, ok := monthNumbers[strings.ToUpper(token)]
	if !ok {
		return nil
	}
	return &month
}

// parseInt reads the leading integer of token ("1900s" reads as 1900).
// Integers that do not fit a 32-bit column are not read.
func parseInt(token string) *int {
	digits := leadingInteger.FindString(token)
	if digits == "" {
		return nil
	}

	value, err := strconv.Atoi(digits)
	if err != nil || value > math.MaxInt32 || value < math.MinInt32 {
		return nil
	}
	return &value
}
