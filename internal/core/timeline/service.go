package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/taibuivan/lineage/internal/core/event"
	"github.com/taibuivan/lineage/internal/platform/metrics"
	"github.com/taibuivan/lineage/internal/platform/validate"
	"github.com/taibuivan/lineage/pkg/slice"
)

// EventSource is the read side of the event catalogue.
type EventSource interface {
	ListByPerson(ctx context.Context, personID string) ([]*event.Event, error)
	List(ctx context.Context, filter event.ListFilter) ([]*event.Event, int, error)
}

type Service struct {
	events  EventSource
	cache   Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService wires the service. cache may be nil to disable caching.
func NewService(events EventSource, cache Cache, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		events:  events,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

/*
Build returns the timeline of a person.

Description: The person's own events determine the year range (see
[CalculateRange]); world, country and local events whose start falls inside
that range are added as context, or with Overlapping those whose earliest to
latest window intersects it. Results are cached until the person's
events change.
*/
func (service *Service) Build(ctx context.Context, personID string, override Override) (*Timeline, error) {
	if err := new(validate.Validator).Required("person_id", personID).Err(); err != nil {
		return nil, err
	}
	if err := event.ValidateYears(override.FromYear, override.ToYear); err != nil {
		return nil, err
	}

	variant := variantOf(override)
	if cached := service.lookup(ctx, personID, variant); cached != nil {
		return cached, nil
	}

	personal, err := service.events.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	timeline := &Timeline{PersonID: personID, Personal: event.ToResponses(personal)}
	categorised := Categorised{Personal: personal}

	if span, ok := CalculateRange(personal, override); ok {
		timeline.Range = &span

		contextual, _, err := service.events.List(ctx, event.ListFilter{
			Categories:  event.ContextCategories,
			FromYear:    &span.StartYear,
			ToYear:      &span.EndYear,
			Overlapping: override.Overlapping,
		})
		if err != nil {
			return nil, err
		}
		categorised.World = slice.Filter(contextual, inCategory(event.CategoryWorld))
		categorised.Country = slice.Filter(contextual, inCategory(event.CategoryCountry))
		categorised.Local = slice.Filter(contextual, inCategory(event.CategoryLocal))
	}

	timeline.World = event.ToResponses(categorised.World)
	timeline.Country = event.ToResponses(categorised.Country)
	timeline.Local = event.ToResponses(categorised.Local)
	timeline.Years = GroupByYear(categorised)

	service.store(ctx, personID, variant, timeline)
	return timeline, nil
}

// PersonEventsChanged drops the cached timelines of personID.
func (service *Service) PersonEventsChanged(ctx context.Context, personID string) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(ctx, personID); err != nil {
		service.logger.WarnContext(ctx, "timeline_cache_invalidate_failed",
			slog.String("person_id", personID),
			slog.Any("error", err),
		)
	}
}

// lookup returns nil on a miss or any cache failure.
func (service *Service) lookup(ctx context.Context, personID, variant string) *Timeline {
	if service.cache == nil {
		return nil
	}

	payload, err := service.cache.Get(ctx, personID, variant)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			service.logger.WarnContext(ctx, "timeline_cache_get_failed", slog.Any("error", err))
		}
		service.metrics.ObserveTimelineCache(false)
		return nil
	}

	var timeline Timeline
	if err := json.Unmarshal(payload, &timeline); err != nil {
		service.logger.WarnContext(ctx, "timeline_cache_corrupt",
			slog.String("person_id", personID),
			slog.Any("error", err),
		)
		service.metrics.ObserveTimelineCache(false)
		return nil
	}

	service.metrics.ObserveTimelineCache(true)
	return &timeline
}

func (service *Service) store(ctx context.Context, personID, variant string, timeline *Timeline) {
	if service.cache == nil {
		return
	}

	payload, err := json.Marshal(timeline)
	if err == nil {
		err = service.cache.Set(ctx, personID, variant, payload)
	}
	if err != nil {
		service.logger.WarnContext(ctx, "timeline_cache_set_failed",
			slog.String("person_id", personID),
			slog.Any("error", err),
		)
	}
}

func inCategory(category event.Category) func(*event.Event) bool {
	return func(e *event.Event) bool { return e.Category == category }
}

// variantOf renders override as "from:to", with "*" for an open end and an
// ":overlap" suffix for overlap matching.
func variantOf(override Override) string {
	variant := yearOrWildcard(override.FromYear) + ":" + yearOrWildcard(override.ToYear)
	if override.Overlapping {
		variant += ":" + event.MatchOverlap
	}
	return variant
}

func yearOrWildcard(year *int) string {
	if year == nil {
		return "*"
	}
	return strconv.Itoa(*year)
}
