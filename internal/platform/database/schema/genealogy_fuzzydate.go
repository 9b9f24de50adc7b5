package schema

// GenealogyFuzzyDateTable represents the 'genealogy.fuzzydate' table
type GenealogyFuzzyDateTable struct {
	Table        string
	ID           string
	OriginalText string
	CalendarType string
	DateType     string
	Year         string
	Month        string
	Day          string
	YearEnd      string
	MonthEnd     string
	DayEnd       string
	Earliest     string
	Latest       string
	SortKey      string
	CreatedAt    string
}

// GenealogyFuzzyDate is the schema definition for genealogy.fuzzydate
var GenealogyFuzzyDate = GenealogyFuzzyDateTable{
	Table:        "genealogy.fuzzydate",
	ID:           "id",
	OriginalText: "originaltext",
	CalendarType: "calendartype",
	DateType:     "datetype",
	Year:         "year",
	Month:        "month",
	Day:          "day",
	YearEnd:      "yearend",
	MonthEnd:     "monthend",
	DayEnd:       "dayend",
	Earliest:     "earliest",
	Latest:       "latest",
	SortKey:      "sortkey",
	CreatedAt:    "createdat",
}

func (t GenealogyFuzzyDateTable) Columns() []string {
	return []string{
		t.ID, t.OriginalText, t.CalendarType, t.DateType,
		t.Year, t.Month, t.Day, t.YearEnd, t.MonthEnd, t.DayEnd,
		t.Earliest, t.Latest, t.SortKey, t.CreatedAt,
	}
}
