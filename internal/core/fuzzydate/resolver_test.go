// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fuzzydate_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
	"github.com/taibuivan/lineage/pkg/pointer"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func resolveText(t *testing.T, raw string) fuzzydate.Bounds {
	t.Helper()

	attrs, ok := fuzzydate.Parse(raw)
	require.True(t, ok)

	bounds, ok := fuzzydate.Resolve(attrs)
	require.True(t, ok)
	return bounds
}

/*
TestResolve_Table checks every row of the bounds table against parsed text.
*/
func TestResolve_Table(t *testing.T) {
	tests := []struct {
		raw      string
		earliest time.Time
		latest   time.Time
		sortKey  time.Time
	}{
		{"BEF 1925", day(1875, 1, 1), day(1924, 12, 31), day(1925, 1, 1)},
		{"BEF 15 MAR 1925", day(1875, 3, 15), day(1925, 3, 14), day(1925, 3, 15)},
		{"AFT 1880", day(1881, 1, 1), day(1930, 12, 31), day(1880, 1, 1)},
		{"AFT JUN 1880", day(1880, 7, 1), day(1930, 6, 30), day(1880, 6, 1)},
		{"BET 1900 AND 1910", day(1900, 1, 1), day(1910, 12, 31), day(1900, 1, 1)},
		{"FROM 1 JAN 1900 TO 31 DEC 1910", day(1900, 1, 1), day(1910, 12, 31), day(1900, 1, 1)},
		{"15 MAR 1925", day(1925, 3, 15), day(1925, 3, 15), day(1925, 3, 15)},
		{"1925", day(1925, 1, 1), day(1925, 12, 31), day(1925, 1, 1)},
		{"APR 1925", day(1925, 4, 1), day(1925, 4, 30), day(1925, 4, 1)},
		{"ABT 1850", day(1850, 1, 1), day(1850, 12, 31), day(1850, 1, 1)},
		{"EST 10 OCT 1800", day(1800, 10, 10), day(1800, 10, 10), day(1800, 10, 10)},
		{"CAL 1860", day(1860, 1, 1), day(1860, 12, 31), day(1860, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bounds := resolveText(t, tt.raw)

			require.NotNil(t, bounds.Earliest)
			require.NotNil(t, bounds.Latest)
			require.NotNil(t, bounds.SortKey)
			assert.Equal(t, tt.earliest, *bounds.Earliest)
			assert.Equal(t, tt.latest, *bounds.Latest)
			assert.Equal(t, tt.sortKey, *bounds.SortKey)
		})
	}
}

/*
TestResolve_MonthEnd checks February length in leap and common years.
*/
func TestResolve_MonthEnd(t *testing.T) {
	tests := []struct {
		year    int
		lastDay int
	}{
		{1900, 28},
		{1904, 29},
		{2000, 29},
		{2001, 28},
	}

	for _, tt := range tests {
		attrs := fuzzydate.Attributes{
			OriginalText: "FEB",
			Type:         fuzzydate.TypeExact,
			Year:         pointer.To(tt.year),
			Month:        pointer.To(2),
		}

		bounds, ok := fuzzydate.Resolve(attrs)
		require.True(t, ok)
		require.NotNil(t, bounds.Latest)
		assert.Equal(t, tt.lastDay, bounds.Latest.Day(), "year %d", tt.year)
	}
}

/*
TestResolve_NoYear verifies that a date without a year has no bounds.
*/
func TestResolve_NoYear(t *testing.T) {
	attrs, ok := fuzzydate.Parse("1 JAN 1900 extra")
	require.True(t, ok)

	bounds, ok := fuzzydate.Resolve(attrs)
	assert.False(t, ok)
	assert.Equal(t, fuzzydate.Bounds{}, bounds)
}

/*
TestResolve_InvalidCalendarDay checks that impossible days only blank the affected bound.
*/
func TestResolve_InvalidCalendarDay(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		bounds := resolveText(t, "31 APR 1900")
		assert.Nil(t, bounds.Earliest)
		assert.Nil(t, bounds.Latest)
		assert.Nil(t, bounds.SortKey)
	})

	t.Run("before_leap_day", func(t *testing.T) {
		// 1854 has no 29 FEB, 1904 does.
		bounds := resolveText(t, "BEF 29 FEB 1904")
		assert.Nil(t, bounds.Earliest)
		require.NotNil(t, bounds.Latest)
		require.NotNil(t, bounds.SortKey)
		assert.Equal(t, day(1904, 2, 28), *bounds.Latest)
		assert.Equal(t, day(1904, 2, 29), *bounds.SortKey)
	})

	t.Run("after_leap_day", func(t *testing.T) {
		bounds := resolveText(t, "AFT 29 FEB 1904")
		require.NotNil(t, bounds.Earliest)
		assert.Equal(t, day(1904, 3, 1), *bounds.Earliest)
		assert.Nil(t, bounds.Latest)
		require.NotNil(t, bounds.SortKey)
	})

	t.Run("zero_day", func(t *testing.T) {
		bounds := resolveText(t, "0 JAN 1900")
		assert.Nil(t, bounds.Earliest)
		assert.Nil(t, bounds.SortKey)
	})
}

/*
TestResolve_OutsideYearWindow leaves bounds nil for years a DATE column cannot hold.
*/
func TestResolve_OutsideYearWindow(t *testing.T) {
	t.Run("far_future", func(t *testing.T) {
		bounds := resolveText(t, "1 JAN 99999999")
		assert.Nil(t, bounds.Earliest)
		assert.Nil(t, bounds.Latest)
		assert.Nil(t, bounds.SortKey)
	})

	t.Run("after_near_limit", func(t *testing.T) {
		bounds := resolveText(t, "AFT 9990")
		require.NotNil(t, bounds.Earliest)
		require.NotNil(t, bounds.SortKey)
		assert.Equal(t, day(9991, 1, 1), *bounds.Earliest)
		assert.Equal(t, day(9990, 1, 1), *bounds.SortKey)
		assert.Nil(t, bounds.Latest)
	})

	t.Run("after_last_day", func(t *testing.T) {
		bounds := resolveText(t, "AFT 31 DEC 9999")
		assert.Nil(t, bounds.Earliest)
		require.NotNil(t, bounds.SortKey)
		assert.Equal(t, day(9999, 12, 31), *bounds.SortKey)
	})

	t.Run("before_first_day", func(t *testing.T) {
		bounds := resolveText(t, "BEF 1 JAN 1")
		assert.Nil(t, bounds.Earliest)
		assert.Nil(t, bounds.Latest)
		require.NotNil(t, bounds.SortKey)
		assert.Equal(t, day(1, 1, 1), *bounds.SortKey)
	})

	t.Run("year_zero", func(t *testing.T) {
		bounds := resolveText(t, "ABT 0")
		assert.Nil(t, bounds.Earliest)
		assert.Nil(t, bounds.SortKey)
	})

	for _, raw := range []string{"1 JAN 99999999", "AFT 9990", "ABT 0", "BEF 1 JAN 1"} {
		bounds := resolveText(t, raw)
		for _, bound := range []*time.Time{bounds.Earliest, bounds.Latest, bounds.SortKey} {
			if bound == nil {
				continue
			}
			assert.True(t, bound.Year() >= fuzzydate.MinYear && bound.Year() <= fuzzydate.MaxYear, raw)
			assert.Equal(t, 0, bound.Hour(), raw)
		}
	}
}

/*
TestResolve_RangeWithoutEnd falls back to the primary date for the latest bound.
*/
func TestResolve_RangeWithoutEnd(t *testing.T) {
	bounds := resolveText(t, "BET 1900 AND sometime in the future")

	require.NotNil(t, bounds.Latest)
	assert.Equal(t, day(1900, 1, 1), *bounds.Earliest)
	assert.Equal(t, day(1900, 12, 31), *bounds.Latest)
}

/*
TestResolve_ReversedRange keeps Earliest before Latest when the end precedes the start.
*/
func TestResolve_ReversedRange(t *testing.T) {
	bounds := resolveText(t, "BET 1910 AND 1900")

	assert.Equal(t, day(1900, 1, 1), *bounds.Earliest)
	assert.Equal(t, day(1910, 12, 31), *bounds.Latest)
	assert.Equal(t, day(1900, 1, 1), *bounds.SortKey)
}

/*
TestResolve_EarliestNotAfterLatest checks the ordering invariant across many inputs.
*/
func TestResolve_EarliestNotAfterLatest(t *testing.T) {
	inputs := []string{
		"1 JAN 1900", "JAN 1900", "1900", "ABT 1900", "BEF 1900", "AFT 1900",
		"EST 1 DEC 1900", "CAL FEB 1904", "BET JAN 1900 AND FEB 1900",
		"FROM 1 JUN 1900 TO 1 JAN 1900", "BEF 1 JAN 1", "AFT DEC 1999",
	}

	for _, raw := range inputs {
		bounds := resolveText(t, raw)
		if bounds.Earliest == nil || bounds.Latest == nil {
			continue
		}
		assert.False(t, bounds.Earliest.After(*bounds.Latest), raw)
	}
}

/*
TestFuzzyDate_Ordering verifies that BEF/AFT dates sort at their stated boundary.
*/
func TestFuzzyDate_Ordering(t *testing.T) {
	texts := []string{"AFT 1925", "1926", "BEF 1925", "1924", "unknown", "BET 1900 AND 1930"}

	var dates []*fuzzydate.FuzzyDate
	for _, raw := range texts {
		date, ok := fuzzydate.New(raw)
		require.True(t, ok)
		dates = append(dates, date)
	}

	sort.SliceStable(dates, func(i, j int) bool {
		return fuzzydate.Compare(dates[i], dates[j]) < 0
	})

	var ordered []string
	for _, date := range dates {
		ordered = append(ordered, date.OriginalText)
	}

	assert.Equal(t, []string{"BET 1900 AND 1930", "1924", "AFT 1925", "BEF 1925", "1926", "unknown"}, ordered)
}

/*
TestCompare_Undated treats nil dates and dates without a sort key alike.
*/
func TestCompare_Undated(t *testing.T) {
	var missing *fuzzydate.FuzzyDate
	dated := &fuzzydate.FuzzyDate{Bounds: resolveText(t, "1900")}

	assert.Equal(t, 0, fuzzydate.Compare(missing, &fuzzydate.FuzzyDate{}))
	assert.Equal(t, -1, fuzzydate.Compare(dated, missing))
	assert.Equal(t, 1, fuzzydate.Compare(missing, dated))
}
