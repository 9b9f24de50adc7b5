package event

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
	"github.com/taibuivan/lineage/internal/platform/apperr"
	"github.com/taibuivan/lineage/internal/platform/dberr"
	"github.com/taibuivan/lineage/internal/platform/metrics"
	"github.com/taibuivan/lineage/internal/platform/sec"
	"github.com/taibuivan/lineage/internal/platform/validate"
	"github.com/taibuivan/lineage/pkg/slug"
	"github.com/taibuivan/lineage/pkg/uuid"
)

// Years outside this window cannot be stored as a DATE sort key.
const (
	MinYear = fuzzydate.MinYear
	MaxYear = fuzzydate.MaxYear
)

const (
	maxTitleLength    = 255
	maxPersonIDLength = 64
	maxImportBatch    = 1000
)

// DateStore resolves date text into stored fuzzy dates.
type DateStore interface {
	FindOrCreate(ctx context.Context, raw string) (*fuzzydate.FuzzyDate, bool, error)
}

// ChangeListener is told when the events linked to a person change.
type ChangeListener interface {
	PersonEventsChanged(ctx context.Context, personID string)
}

type Service struct {
	repo        Repository
	dates       DateStore
	listener    ChangeListener
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewService wires the service. listener may be nil; concurrency bounds the
// number of GEDCOM events ingested at once.
func NewService(repo Repository, dates DateStore, listener ChangeListener, concurrency int, m *metrics.Metrics, logger *slog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		repo:        repo,
		dates:       dates,
		listener:    listener,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger,
	}
}

/*
Create validates and stores a new event on behalf of actor.

Description: Date texts are resolved through the fuzzy date store. A blank
end date defaults to the start date, and an end date that sorts before the
start is rejected. Contextual events are reserved to curators.
*/
func (service *Service) Create(ctx context.Context, actor *sec.AuthClaims, input CreateInput) (*Event, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	validator := new(validate.Validator)
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, maxTitleLength).
		Required("description", input.Description).
		OneOf("category", input.Category, CategoryNames()...)
	for _, personID := range input.PersonIDs {
		validator.Required("person_ids", personID).MaxLen("person_ids", personID, maxPersonIDLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	category, _ := ParseCategory(input.Category)
	if category.IsContextual() && !sec.UserRole(actor.Role).AtLeast(sec.RoleCurator) {
		return nil, apperr.Forbidden("Only curators can create " + category.String() + " events")
	}

	start, end, err := service.resolveDates(ctx, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	event := &Event{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		Category:    category,
		CreatorID:   actor.UserID,
		SourceID:    input.SourceID,
		PersonIDs:   input.PersonIDs,
		StartDate:   start,
		EndDate:     end,
	}
	if err := service.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "event_created",
		slog.String("event_id", event.ID),
		slog.String("category", category.String()),
		slog.String("creator_id", actor.UserID),
	)
	for _, personID := range event.PersonIDs {
		service.notify(ctx, personID)
	}
	return event, nil
}

// resolveDates stores both date texts and applies the end date rules.
func (service *Service) resolveDates(ctx context.Context, startText, endText string) (*fuzzydate.FuzzyDate, *fuzzydate.FuzzyDate, error) {
	start, err := service.findDate(ctx, startText)
	if err != nil {
		return nil, nil, err
	}

	end := start
	if strings.TrimSpace(endText) != "" {
		if end, err = service.findDate(ctx, endText); err != nil {
			return nil, nil, err
		}
	}

	if start != nil && end != nil && start.SortKey != nil && end.SortKey != nil && end.SortKey.Before(*start.SortKey) {
		return nil, nil, validate.RequiredError("end_date", "must be after start date")
	}
	return start, end, nil
}

// findDate returns nil for blank text.
func (service *Service) findDate(ctx context.Context, text string) (*fuzzydate.FuzzyDate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	date, _, err := service.dates.FindOrCreate(ctx, text)
	return date, err
}

func (service *Service) Get(ctx context.Context, id string) (*Event, error) {
	if err := new(validate.Validator).UUID("id", id).Err(); err != nil {
		return nil, err
	}
	return service.repo.GetByID(ctx, id)
}

// List returns dated events by category within an optional year window.
func (service *Service) List(ctx context.Context, filter ListFilter) ([]*Event, int, error) {
	if err := ValidateYears(filter.FromYear, filter.ToYear); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, filter)
}

// ListByPerson returns a person's events in timeline order, undated last.
func (service *Service) ListByPerson(ctx context.Context, personID string) ([]*Event, error) {
	if err := validatePersonID(personID); err != nil {
		return nil, err
	}

	events, err := service.repo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return fuzzydate.Compare(events[i].StartDate, events[j].StartDate) < 0
	})
	return events, nil
}

/*
Import ingests the GEDCOM events of one person.

Description: Each event becomes a person event whose start and end are the
parsed GEDCOM date. A date the store rejects leaves that event undated and is
reported as a warning on its result. An event previously ingested from the same source under
the same title is updated in place. Events sharing a title are processed in
order by the same worker so a batch never duplicates itself.

Returns:
  - []ImportResult: One result per input event, in input order
  - error: Validation errors, or the first storage failure
*/
func (service *Service) Import(ctx context.Context, personID, sourceID, creatorID string, events []GedcomEvent) ([]ImportResult, error) {
	validator := new(validate.Validator)
	validator.Required("person_id", personID).
		MaxLen("person_id", personID, maxPersonIDLength).
		Required("source_id", sourceID).
		Custom("events", len(events) == 0, "At least one event is required").
		Custom("events", len(events) > maxImportBatch, "Too many events in one import")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	results := make([]ImportResult, len(events))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(service.concurrency)

	for _, indexes := range groupByTitle(events) {
		group.Go(func() error {
			for _, index := range indexes {
				result, err := service.importOne(groupCtx, personID, sourceID, creatorID, events[index])
				result.Index = index
				results[index] = result
				service.metrics.ObserveImport(result.Outcome)
				if err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := group.Wait()
	service.notify(ctx, personID)
	if err != nil {
		service.logger.ErrorContext(ctx, "gedcom_import_failed",
			slog.String("person_id", personID),
			slog.String("source_id", sourceID),
			slog.Any("error", err),
		)
		return nil, err
	}

	service.logger.InfoContext(ctx, "gedcom_import_finished",
		slog.String("person_id", personID),
		slog.String("source_id", sourceID),
		slog.Int("events", len(events)),
	)
	return results, nil
}

// importOne returns a failed result without error for input it rejects.
func (service *Service) importOne(ctx context.Context, personID, sourceID, creatorID string, gedcom GedcomEvent) (ImportResult, error) {
	title := strings.TrimSpace(gedcom.Name)
	result := ImportResult{Title: title}

	if title == "" {
		result.Outcome = OutcomeFailed
		result.Error = "name: This field is required"
		return result, nil
	}

	date, err := service.findDate(ctx, gedcom.Date)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.Outcome = OutcomeFailed
			result.Error = ctxErr.Error()
			return result, ctxErr
		}
		// An unstorable date leaves the event undated.
		service.logger.WarnContext(ctx, "gedcom_date_rejected",
			slog.String("person_id", personID),
			slog.String("title", title),
			slog.String("date", gedcom.Date),
			slog.Any("error", err),
		)
		result.Warning = "date: " + err.Error()
		date = nil
	}

	event, err := service.repo.FindImported(ctx, title, sourceID, personID)
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		event = &Event{
			ID:        uuid.New(),
			Category:  CategoryPerson,
			SourceID:  &sourceID,
			PersonIDs: []string{personID},
		}
		result.Outcome = OutcomeCreated
	case err != nil:
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
		return result, err
	default:
		result.Outcome = OutcomeUpdated
	}

	event.Title = title
	event.Slug = slug.From(title)
	event.Description = gedcom.ComposeDescription()
	event.CreatorID = creatorID
	event.StartDate = date
	event.EndDate = date

	if result.Outcome == OutcomeCreated {
		err = service.repo.Create(ctx, event)
	} else {
		err = service.repo.Update(ctx, event)
	}
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
		return result, err
	}

	result.EventID = event.ID
	return result, nil
}

// groupByTitle partitions event indexes by trimmed title, keeping input order.
func groupByTitle(events []GedcomEvent) [][]int {
	positions := make(map[string]int)
	var groups [][]int
	for i, gedcom := range events {
		title := strings.TrimSpace(gedcom.Name)
		position, ok := positions[title]
		if !ok {
			position = len(groups)
			positions[title] = position
			groups = append(groups, nil)
		}
		groups[position] = append(groups[position], i)
	}
	return groups
}

func (service *Service) notify(ctx context.Context, personID string) {
	if service.listener != nil {
		service.listener.PersonEventsChanged(ctx, personID)
	}
}

// ValidateYears checks an optional inclusive year window.
func ValidateYears(from, to *int) error {
	return new(validate.Validator).
		OptionalRange("from_year", from, MinYear, MaxYear).
		OptionalRange("to_year", to, MinYear, MaxYear).
		Custom("to_year", from != nil && to != nil && *to < *from, "Must not be before from_year").
		Err()
}

func validatePersonID(personID string) error {
	return new(validate.Validator).
		Required("person_id", personID).
		MaxLen("person_id", personID, maxPersonIDLength).
		Err()
}
