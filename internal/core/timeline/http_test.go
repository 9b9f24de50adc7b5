package timeline_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lineage/internal/core/timeline"
)

type envelope struct {
	Data *timeline.Timeline `json:"data"`
	Code string             `json:"code"`
}

func get(t *testing.T, handler *timeline.Handler, path string) (int, envelope) {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/people/{personID}", handler.RegisterPersonRoutes)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder.Code, body
}

/*
TestHandler_Get renders a timeline and honours the override years.
*/
func TestHandler_Get(t *testing.T) {
	handler := timeline.NewHandler(timeline.NewService(lifeOfAnna(), nil, nil, discard()))

	status, body := get(t, handler, "/people/I1/timeline")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Data)
	assert.Equal(t, &timeline.Range{StartYear: 1890, EndYear: 1950}, body.Data.Range)
	assert.NotEmpty(t, body.Data.Years)

	status, body = get(t, handler, "/people/I1/timeline?from_year=1960&to_year=1970")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Data.World, 1)
	assert.Equal(t, "Moon landing", body.Data.World[0].Title)

	status, body = get(t, handler, "/people/I1/timeline?match=overlap")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Data.World, 2)
}

func TestHandler_GetErrors(t *testing.T) {
	handler := timeline.NewHandler(timeline.NewService(lifeOfAnna(), nil, nil, discard()))

	for _, path := range []string{
		"/people/I1/timeline?from_year=early",
		"/people/I1/timeline?from_year=1950&to_year=1900",
		"/people/I1/timeline?match=fuzzy",
	} {
		status, body := get(t, handler, path)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION_ERROR", body.Code, path)
	}
}
