package fuzzydate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lineage/internal/platform/database/schema"
	"github.com/taibuivan/lineage/internal/platform/dberr"
	"github.com/taibuivan/lineage/pkg/pointer"
	"github.com/taibuivan/lineage/pkg/uuid"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectColumns renders the fuzzy date columns qualified by alias, in the
// order expected by [Row.Targets].
func SelectColumns(alias string) string {
	columns := schema.GenealogyFuzzyDate.Columns()
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

// Row is a nullable scan target for one fuzzy date, so it can be used on
// the optional side of a LEFT JOIN.
type Row struct {
	ID           *string
	OriginalText *string
	CalendarType *string
	DateType     *string
	Year         *int
	Month        *int
	Day          *int
	YearEnd      *int
	MonthEnd     *int
	DayEnd       *int
	Earliest     *time.Time
	Latest       *time.Time
	SortKey      *time.Time
	CreatedAt    *time.Time
}

// Targets returns the scan destinations matching [SelectColumns].
func (r *Row) Targets() []any {
	return []any{
		&r.ID, &r.OriginalText, &r.CalendarType, &r.DateType,
		&r.Year, &r.Month, &r.Day, &r.YearEnd, &r.MonthEnd, &r.DayEnd,
		&r.Earliest, &r.Latest, &r.SortKey, &r.CreatedAt,
	}
}

// FuzzyDate converts the scanned row. It returns nil when the row was NULL.
func (r *Row) FuzzyDate() (*FuzzyDate, error) {
	if r.ID == nil {
		return nil, nil
	}

	calendar, err := ParseCalendarType(pointer.Val(r.CalendarType))
	if err != nil {
		return nil, err
	}
	dateType, err := ParseDateType(pointer.Val(r.DateType))
	if err != nil {
		return nil, err
	}

	date := &FuzzyDate{
		ID: *r.ID,
		Attributes: Attributes{
			OriginalText: pointer.Val(r.OriginalText),
			Calendar:     calendar,
			Type:         dateType,
			Year:         r.Year,
			Month:        r.Month,
			Day:          r.Day,
			YearEnd:      r.YearEnd,
			MonthEnd:     r.MonthEnd,
			DayEnd:       r.DayEnd,
		},
		Bounds: Bounds{
			Earliest: utcDate(r.Earliest),
			Latest:   utcDate(r.Latest),
			SortKey:  utcDate(r.SortKey),
		},
	}
	if r.CreatedAt != nil {
		date.CreatedAt = *r.CreatedAt
	}
	return date, nil
}

func (repository *PostgresRepository) FindOrCreate(ctx context.Context, date *FuzzyDate) (*FuzzyDate, bool, error) {
	table := schema.GenealogyFuzzyDate
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (%s) DO NOTHING
		RETURNING %s
	`,
		table.Table,
		table.ID, table.OriginalText, table.CalendarType, table.DateType,
		table.Year, table.Month, table.Day, table.YearEnd, table.MonthEnd, table.DayEnd,
		table.Earliest, table.Latest, table.SortKey,
		table.OriginalText,
		strings.Join(table.Columns(), ", "),
	)

	row := &Row{}
	err := repository.db.QueryRow(ctx, query,
		uuid.New(), date.OriginalText, date.Calendar.String(), date.Type.String(),
		date.Year, date.Month, date.Day, date.YearEnd, date.MonthEnd, date.DayEnd,
		date.Earliest, date.Latest, date.SortKey,
	).Scan(row.Targets()...)

	switch {
	case err == nil:
		created, convErr := row.FuzzyDate()
		if convErr != nil {
			return nil, false, dberr.Wrap(convErr, "convert_fuzzy_date")
		}
		return created, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Lost the race or already imported: the row exists.
		existing, getErr := repository.GetByOriginalText(ctx, date.OriginalText)
		return existing, false, getErr
	default:
		return nil, false, dberr.Wrap(err, "insert_fuzzy_date")
	}
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*FuzzyDate, error) {
	return repository.getBy(ctx, schema.GenealogyFuzzyDate.ID, id, "get_fuzzy_date_by_id")
}

func (repository *PostgresRepository) GetByOriginalText(ctx context.Context, text string) (*FuzzyDate, error) {
	return repository.getBy(ctx, schema.GenealogyFuzzyDate.OriginalText, text, "get_fuzzy_date_by_text")
}

func (repository *PostgresRepository) getBy(ctx context.Context, column, value, action string) (*FuzzyDate, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s f WHERE f.%s = $1`,
		SelectColumns("f"), schema.GenealogyFuzzyDate.Table, column)

	row := &Row{}
	if err := repository.db.QueryRow(ctx, query, value).Scan(row.Targets()...); err != nil {
		return nil, dberr.Wrap(err, action)
	}

	date, err := row.FuzzyDate()
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return date, nil
}

// utcDate normalizes a scanned DATE to UTC midnight.
func utcDate(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	date := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}
