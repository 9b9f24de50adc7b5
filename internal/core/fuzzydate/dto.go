package fuzzydate

import "time"

// DateLayout is the wire format of every derived bound.
const DateLayout = "2006-01-02"

// Response is the JSON representation of a [FuzzyDate].
type Response struct {
	ID           string       `json:"id,omitempty"`
	OriginalText string       `json:"original_text"`
	CalendarType CalendarType `json:"calendar_type"`
	DateType     DateType     `json:"date_type"`
	Year         *int         `json:"year"`
	Month        *int         `json:"month"`
	Day          *int         `json:"day"`
	YearEnd      *int         `json:"year_end,omitempty"`
	MonthEnd     *int         `json:"month_end,omitempty"`
	DayEnd       *int         `json:"day_end,omitempty"`
	Earliest     *string      `json:"earliest"`
	Latest       *string      `json:"latest"`
	SortKey      *string      `json:"sort_key"`
}

// ToResponse renders date for the API. A nil date renders as nil.
func ToResponse(date *FuzzyDate) *Response {
	if date == nil {
		return nil
	}

	return &Response{
		ID:           date.ID,
		OriginalText: date.OriginalText,
		CalendarType: date.Calendar,
		DateType:     date.Type,
		Year:         date.Year,
		Month:        date.Month,
		Day:          date.Day,
		YearEnd:      date.YearEnd,
		MonthEnd:     date.MonthEnd,
		DayEnd:       date.DayEnd,
		Earliest:     formatDate(date.Earliest),
		Latest:       formatDate(date.Latest),
		SortKey:      formatDate(date.SortKey),
	}
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(DateLayout)
	return &formatted
}
