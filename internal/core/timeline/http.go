package timeline

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lineage/internal/core/event"
	requestutil "github.com/taibuivan/lineage/internal/platform/request"
	"github.com/taibuivan/lineage/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPersonRoutes mounts the timeline on a router carrying {personID}.
func (handler *Handler) RegisterPersonRoutes(router chi.Router) {
	router.Get("/timeline", handler.get)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	var override Override
	var err error
	if override.Overlapping, err = event.MatchParam(params.Get("match")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if override.FromYear, err = event.YearParam(params.Get("from_year")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if override.ToYear, err = event.YearParam(params.Get("to_year")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	timeline, err := handler.service.Build(request.Context(), requestutil.Param(request, "personID"), override)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, timeline)
}
