package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
	"github.com/taibuivan/lineage/internal/platform/database/schema"
	"github.com/taibuivan/lineage/internal/platform/dberr"
	"github.com/taibuivan/lineage/pkg/slice"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
selectEvents renders the shared projection of an event with its linked
people and both fuzzy dates.

The start date is joined as "fs" and the end date as "fe"; extra is appended
to the column list.
*/
func selectEvents(extra string) string {
	event := schema.GenealogyEvent
	link := schema.GenealogyEventPerson
	date := schema.GenealogyFuzzyDate

	return fmt.Sprintf(`
		SELECT
			e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s,
			ARRAY(SELECT ep.%s FROM %s ep WHERE ep.%s = e.%s ORDER BY ep.%s) AS personids,
			%s,
			%s%s
		FROM %s e
		LEFT JOIN %s fs ON fs.%s = e.%s
		LEFT JOIN %s fe ON fe.%s = e.%s
	`,
		event.ID, event.Title, event.Slug, event.Description, event.Category,
		event.CreatorID, event.SourceID, event.CreatedAt, event.UpdatedAt,
		link.PersonID, link.Table, link.EventID, event.ID, link.PersonID,
		fuzzydate.SelectColumns("fs"),
		fuzzydate.SelectColumns("fe"), extra,
		event.Table,
		date.Table, date.ID, event.StartDateID,
		date.Table, date.ID, event.EndDateID,
	)
}

// personFilter matches events linked to the person bound to placeholder.
func personFilter(placeholder int) string {
	link := schema.GenealogyEventPerson
	return fmt.Sprintf(`EXISTS (SELECT 1 FROM %s ep WHERE ep.%s = e.%s AND ep.%s = $%d)`,
		link.Table, link.EventID, schema.GenealogyEvent.ID, link.PersonID, placeholder)
}

// scanEvent hydrates one row of [selectEvents]; extra receives the appended columns.
func scanEvent(row pgx.Row, extra ...any) (*Event, error) {
	var event Event
	var category string
	start, end := &fuzzydate.Row{}, &fuzzydate.Row{}

	targets := []any{
		&event.ID, &event.Title, &event.Slug, &event.Description, &category,
		&event.CreatorID, &event.SourceID, &event.CreatedAt, &event.UpdatedAt,
		&event.PersonIDs,
	}
	targets = append(targets, start.Targets()...)
	targets = append(targets, end.Targets()...)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	var err error
	if event.Category, err = ParseCategory(category); err != nil {
		return nil, err
	}
	if event.StartDate, err = start.FuzzyDate(); err != nil {
		return nil, err
	}
	if event.EndDate, err = end.FuzzyDate(); err != nil {
		return nil, err
	}
	return &event, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, event *Event) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_event")
	}
	defer transaction.Rollback(ctx)

	table := schema.GenealogyEvent
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s
	`,
		table.Table,
		table.ID, table.Title, table.Slug, table.Description, table.Category,
		table.CreatorID, table.SourceID, table.StartDateID, table.EndDateID,
		table.CreatedAt, table.UpdatedAt,
	)

	err = transaction.QueryRow(ctx, query,
		event.ID, event.Title, event.Slug, event.Description, event.Category.String(),
		event.CreatorID, event.SourceID, dateID(event.StartDate), dateID(event.EndDate),
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_event")
	}

	for _, personID := range event.PersonIDs {
		if err := linkPerson(ctx, transaction, event.ID, personID); err != nil {
			return dberr.Wrap(err, "link_event_person")
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_event")
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, event *Event) error {
	table := schema.GenealogyEvent
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = now()
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table,
		table.Title, table.Slug, table.Description, table.Category,
		table.CreatorID, table.SourceID, table.StartDateID, table.EndDateID, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Slug, event.Description, event.Category.String(),
		event.CreatorID, event.SourceID, dateID(event.StartDate), dateID(event.EndDate),
	).Scan(&event.UpdatedAt)
	return dberr.Wrap(err, "update_event")
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := selectEvents("") + fmt.Sprintf(` WHERE e.%s = $1`, schema.GenealogyEvent.ID)

	event, err := scanEvent(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_event_by_id")
	}
	return event, nil
}

/*
List retrieves dated events for the given categories and year window.

Description: The window runs from Jan 1 of FromYear to Dec 31 of ToYear and
applies to the start date's sort key, or with Overlapping to its uncertainty
window so that "BEF 1900" reaches back into the 1850s. Pagination is skipped
when Limit is zero.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Event, int, error) {
	table := schema.GenealogyEvent
	date := schema.GenealogyFuzzyDate

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectEvents(", COUNT(*) OVER() AS total"))
	lower, upper := date.SortKey, date.SortKey
	if filter.Overlapping {
		lower, upper = date.Latest, date.Earliest
		queryBuilder.WriteString(fmt.Sprintf(" WHERE fs.%s IS NOT NULL AND fs.%s IS NOT NULL", date.Earliest, date.Latest))
	} else {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE fs.%s IS NOT NULL", date.SortKey))
	}

	if len(filter.Categories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = ANY($%d)", table.Category, argID))
		args = append(args, slice.Map(filter.Categories, Category.String))
		argID++
	}
	if filter.FromYear != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND fs.%s >= make_date($%d, 1, 1)", lower, argID))
		args = append(args, *filter.FromYear)
		argID++
	}
	if filter.ToYear != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND fs.%s <= make_date($%d, 12, 31)", upper, argID))
		args = append(args, *filter.ToYear)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY fs.%s ASC NULLS LAST, e.%s ASC", date.SortKey, table.ID))
	if filter.Bounded() {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, filter.Limit, filter.Offset())
	}

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	events := make([]*Event, 0)
	var total int
	for rows.Next() {
		event, err := scanEvent(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_event")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	return events, total, nil
}

func (repository *PostgresRepository) ListByPerson(ctx context.Context, personID string) ([]*Event, error) {
	query := selectEvents("") + " WHERE " + personFilter(1) + fmt.Sprintf(
		" ORDER BY fs.%s ASC NULLS LAST, e.%s ASC",
		schema.GenealogyFuzzyDate.SortKey, schema.GenealogyEvent.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_person_events")
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_event")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_person_events")
	}
	return events, nil
}

func (repository *PostgresRepository) FindImported(ctx context.Context, title, sourceID, personID string) (*Event, error) {
	table := schema.GenealogyEvent
	query := selectEvents("") + fmt.Sprintf(
		" WHERE e.%s = $1 AND e.%s = $2 AND e.%s = '%s' AND %s ORDER BY e.%s ASC LIMIT 1",
		table.Title, table.SourceID, table.Category, CategoryPerson, personFilter(3), table.CreatedAt,
	)

	event, err := scanEvent(repository.pool.QueryRow(ctx, query, title, sourceID, personID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_imported_event")
	}
	return event, nil
}

func (repository *PostgresRepository) LinkPerson(ctx context.Context, eventID, personID string) error {
	return dberr.Wrap(linkPerson(ctx, repository.pool, eventID, personID), "link_event_person")
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func linkPerson(ctx context.Context, db execer, eventID, personID string) error {
	link := schema.GenealogyEventPerson
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		link.Table, link.EventID, link.PersonID)

	_, err := db.Exec(ctx, query, eventID, personID)
	return err
}

func dateID(date *fuzzydate.FuzzyDate) *string {
	if date == nil {
		return nil
	}
	return &date.ID
}
