package fuzzydate_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
)

type envelope struct {
	Data  *fuzzydate.Response `json:"data"`
	Error string              `json:"error"`
	Code  string              `json:"code"`
}

func serve(t *testing.T, handler http.Handler, method, path, body string) (int, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return recorder.Code, decoded
}

/*
TestHandler_Parse checks the preview endpoint renders attributes and ISO dates.
*/
func TestHandler_Parse(t *testing.T) {
	repo := newMemoryRepository()
	routes := fuzzydate.NewHandler(newTestService(repo)).Routes()

	status, body := serve(t, routes, http.MethodPost, "/parse", `{"text":"@#DJULIAN@ BET 1900 AND 1930"}`)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Data)

	assert.Empty(t, body.Data.ID)
	assert.Equal(t, fuzzydate.CalendarJulian, body.Data.CalendarType)
	assert.Equal(t, fuzzydate.TypeBetween, body.Data.DateType)
	assert.Equal(t, 1930, *body.Data.YearEnd)
	assert.Equal(t, "1900-01-01", *body.Data.Earliest)
	assert.Equal(t, "1930-12-31", *body.Data.Latest)
	assert.Equal(t, "1900-01-01", *body.Data.SortKey)
	assert.Zero(t, repo.inserts)
}

/*
TestHandler_ParseUnresolved renders null bounds when no year could be read.
*/
func TestHandler_ParseUnresolved(t *testing.T) {
	routes := fuzzydate.NewHandler(newTestService(newMemoryRepository())).Routes()

	status, body := serve(t, routes, http.MethodPost, "/parse", `{"text":"unknown"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fuzzydate.TypeYear, body.Data.DateType)
	assert.Nil(t, body.Data.Year)
	assert.Nil(t, body.Data.Earliest)
	assert.Nil(t, body.Data.SortKey)
}

/*
TestHandler_FindOrCreate returns 201 for a new date and 200 for a repeat.
*/
func TestHandler_FindOrCreate(t *testing.T) {
	routes := fuzzydate.NewHandler(newTestService(newMemoryRepository())).Routes()

	status, first := serve(t, routes, http.MethodPost, "/", `{"text":"ABT 1850"}`)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, first.Data.ID)
	assert.Equal(t, "1850-01-01", *first.Data.Earliest)

	status, second := serve(t, routes, http.MethodPost, "/", `{"text":"ABT 1850"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, first.Data.ID, second.Data.ID)

	status, fetched := serve(t, routes, http.MethodGet, "/"+first.Data.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ABT 1850", fetched.Data.OriginalText)
}

/*
TestHandler_Errors verifies the error envelope for bad input.
*/
func TestHandler_Errors(t *testing.T) {
	routes := fuzzydate.NewHandler(newTestService(newMemoryRepository())).Routes()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed json", http.MethodPost, "/parse", `{"text":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"blank text", http.MethodPost, "/", `{"text":"  "}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing text", http.MethodPost, "/parse", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad id", http.MethodGet, "/abc", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown id", http.MethodGet, "/00000000-0000-7000-8000-000000000042", "", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, routes, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.Nil(t, body.Data)
		})
	}
}
