package middleware_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lineage/internal/platform/constants"
	"github.com/taibuivan/lineage/internal/platform/ctxutil"
	"github.com/taibuivan/lineage/internal/platform/middleware"
	"github.com/taibuivan/lineage/internal/platform/sec"
)

var ok = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRequestID keeps a client supplied ID and generates one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "trace-1")
	recorder := serve(handler, request)
	assert.Equal(t, "trace-1", seen)
	assert.Equal(t, "trace-1", recorder.Header().Get(constants.HeaderXRequestID))

	recorder = serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRateLimiter exhausts the burst of one client without affecting another.
*/
func TestRateLimiter(t *testing.T) {
	handler := middleware.NewRateLimiter(0.001, 2).Middleware(ok)

	request := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(constants.HeaderXRealIP, ip)
		return serve(handler, r)
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)

	limited := request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), `"RATE_LIMITED"`)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, request("10.0.0.2").Code)
}

type environment bool

func (e environment) IsDevelopment() bool { return bool(e) }

/*
TestCORS trusts the primary domain, its subdomains and configured extras.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(environment(false), "https://archive.example.org")(ok)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://lineage.app", true},
		{"https://www.lineage.app", true},
		{"http://localhost.lineage.app:3000", true},
		{"https://archive.example.org", true},
		{"https://evil-lineage.app", false},
		{"https://lineage.app.evil.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := serve(handler, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}

	request := httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	recorder := serve(middleware.CORS(environment(true))(ok), request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestPanicRecovery converts a panic into the standard 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"INTERNAL_ERROR"`)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

type stubVerifier map[string]*sec.AuthClaims

func (v stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, found := v[token]; found {
		return claims, nil
	}
	return nil, errors.New("unknown token")
}

/*
TestAuthentication chains Authenticate with the role guard.
*/
func TestAuthentication(t *testing.T) {
	verifier := stubVerifier{
		"member":  {UserID: "u1", Role: string(sec.RoleMember)},
		"curator": {UserID: "u2", Role: string(sec.RoleCurator)},
	}
	handler := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleCurator)(ok))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"insufficient role", "Bearer member", http.StatusForbidden},
		{"curator", "Bearer curator", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := serve(handler, request)
			require.Equal(t, tt.want, recorder.Code, recorder.Body.String())
		})
	}
}
