package event

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lineage/internal/platform/apperr"
	"github.com/taibuivan/lineage/internal/platform/middleware"
	requestutil "github.com/taibuivan/lineage/internal/platform/request"
	"github.com/taibuivan/lineage/internal/platform/respond"
	"github.com/taibuivan/lineage/internal/platform/validate"
	"github.com/taibuivan/lineage/pkg/pagination"
	"github.com/taibuivan/lineage/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// importRequest is the body of the GEDCOM import endpoint.
type importRequest struct {
	SourceID string        `json:"source_id"`
	Events   []GedcomEvent `json:"events"`
}

// Routes mounts the event catalogue under /events.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.With(middleware.RequireAuth).Post("/", handler.create)
	return router
}

// RegisterPersonRoutes mounts the person scoped endpoints on a router
// already carrying the {personID} parameter.
func (handler *Handler) RegisterPersonRoutes(router chi.Router) {
	router.Get("/events", handler.listByPerson)
	router.With(middleware.RequireAuth).Post("/events/import", handler.importEvents)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseListFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	events, total, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, ToResponses(events), pagination.NewMeta(filter.Page, filter.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	event, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ToResponse(event))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Create(request.Context(), claims, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, ToResponse(event))
}

func (handler *Handler) listByPerson(writer http.ResponseWriter, request *http.Request) {
	events, err := handler.service.ListByPerson(request.Context(), requestutil.Param(request, "personID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ToResponses(events))
}

func (handler *Handler) importEvents(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body importRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := handler.service.Import(request.Context(), requestutil.Param(request, "personID"), body.SourceID, userID, body.Events)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, results)
}

// parseListFilter reads category, match, from_year, to_year and pagination.
func parseListFilter(request *http.Request) (ListFilter, error) {
	params := request.URL.Query()
	filter := ListFilter{Params: pagination.FromRequest(request)}

	validator := new(validate.Validator)
	for _, name := range query.StringSlice(params.Get("category")) {
		category, err := ParseCategory(name)
		validator.Custom("category", err != nil, "Unknown category: "+name)
		filter.Categories = append(filter.Categories, category)
	}

	var err error
	if filter.Overlapping, err = MatchParam(params.Get("match")); err != nil {
		validator.Custom("match", true, "Must be start or overlap")
	}
	if filter.FromYear, err = YearParam(params.Get("from_year")); err != nil {
		validator.Custom("from_year", true, "Must be a year")
	}
	if filter.ToYear, err = YearParam(params.Get("to_year")); err != nil {
		validator.Custom("to_year", true, "Must be a year")
	}
	return filter, validator.Err()
}

// YearParam parses an optional year query value; blank yields nil.
func YearParam(raw string) (*int, error) {
	year, err := query.OptionalInt(raw)
	if err != nil {
		return nil, apperr.ValidationError("Invalid year: " + raw)
	}
	return year, nil
}

// Year window match modes.
const (
	MatchStart   = "start"
	MatchOverlap = "overlap"
)

// MatchParam reports whether raw selects overlap matching; blank means start.
func MatchParam(raw string) (bool, error) {
	switch raw {
	case "", MatchStart:
		return false, nil
	case MatchOverlap:
		return true, nil
	}
	return false, apperr.ValidationError("Invalid match: " + raw)
}
