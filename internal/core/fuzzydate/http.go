package fuzzydate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/lineage/internal/platform/request"
	"github.com/taibuivan/lineage/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// textRequest is the body of the parse and create endpoints.
type textRequest struct {
	Text string `json:"text"`
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/parse", handler.parse)
	router.Post("/", handler.findOrCreate)
	router.Get("/{id}", handler.get)
	return router
}

func (handler *Handler) parse(writer http.ResponseWriter, request *http.Request) {
	var body textRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	date, err := handler.service.Preview(body.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ToResponse(date))
}

func (handler *Handler) findOrCreate(writer http.ResponseWriter, request *http.Request) {
	var body textRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	date, created, err := handler.service.FindOrCreate(request.Context(), body.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, ToResponse(date))
		return
	}
	respond.OK(writer, ToResponse(date))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	date, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ToResponse(date))
}
