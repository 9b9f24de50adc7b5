package fuzzydate

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/taibuivan/lineage/internal/platform/metrics"
	"github.com/taibuivan/lineage/internal/platform/validate"
)

// Service exposes parsing and find-or-create persistence of fuzzy dates.
type Service struct {
	repo     Repository
	previews *cache.Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService wires the service. Previews are memoised for previewTTL.
func NewService(repo Repository, previewTTL time.Duration, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		previews: cache.New(previewTTL, 2*previewTTL),
		metrics:  m,
		logger:   logger,
	}
}

// Preview parses and resolves raw without storing it.
func (service *Service) Preview(raw string) (*FuzzyDate, error) {
	if cached, found := service.previews.Get(raw); found {
		date := cached.(FuzzyDate)
		return &date, nil
	}

	date, err := service.interpret(raw)
	if err != nil {
		return nil, err
	}

	service.previews.SetDefault(raw, *date)
	return date, nil
}

// FindOrCreate interprets raw and returns the stored date with the same
// original text, inserting it when none exists yet.
func (service *Service) FindOrCreate(ctx context.Context, raw string) (*FuzzyDate, bool, error) {
	date, err := service.interpret(raw)
	if err != nil {
		return nil, false, err
	}

	stored, created, err := service.repo.FindOrCreate(ctx, date)
	if err != nil {
		return nil, false, err
	}

	if created {
		service.metrics.IncrementDatesCreated()
		service.logger.DebugContext(ctx, "fuzzy_date_created",
			slog.String("id", stored.ID),
			slog.String("original_text", stored.OriginalText),
			slog.String("date_type", stored.Type.String()),
		)
	}
	return stored, created, nil
}

// Get returns a stored date by ID.
func (service *Service) Get(ctx context.Context, id string) (*FuzzyDate, error) {
	if err := new(validate.Validator).UUID("id", id).Err(); err != nil {
		return nil, err
	}
	return service.repo.GetByID(ctx, id)
}

func (service *Service) interpret(raw string) (*FuzzyDate, error) {
	date, ok := New(raw)
	if !ok {
		return nil, validate.RequiredError("text", "Date text is required")
	}

	service.metrics.ObserveParsed(date.Type.String(), date.SortKey != nil)
	return date, nil
}
