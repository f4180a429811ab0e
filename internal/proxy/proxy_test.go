package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newProxyRouter(upstream string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(NewForwarder(upstream, testLogger()).Handler())
	return r
}

func TestForwarderRelaysRequest(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(201)
		w.Write([]byte(`{"id":7,"status":"pending"}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)
	req := httptest.NewRequest("POST", "/api/bookings?dry=1", strings.NewReader(`{"trip_id":3,"seats":2}`))
	req.Header.Set("Authorization", "Bearer token-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "/api/bookings", got.URL.Path)
	assert.Equal(t, "dry=1", got.URL.RawQuery)
	assert.Equal(t, "Bearer token-123", got.Header.Get("Authorization"))
	assert.JSONEq(t, `{"trip_id":3,"seats":2}`, string(gotBody))

	assert.Equal(t, 201, w.Code)
	assert.JSONEq(t, `{"id":7,"status":"pending"}`, w.Body.String())
}

func TestForwarderPassesThroughErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(409)
		w.Write([]byte(`{"error":"Not enough seats available"}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PATCH", "/api/bookings/7", strings.NewReader(`{"status":"confirmed"}`)))

	assert.Equal(t, 409, w.Code)
	assert.JSONEq(t, `{"error":"Not enough seats available"}`, w.Body.String())
}

func TestForwarderRejectsInvalidUpstreamJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/trips", nil))

	assert.Equal(t, 500, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "invalid response")
}

func TestForwarderUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	router := newProxyRouter(upstream.URL)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/trips", nil))

	assert.Equal(t, 502, w.Code)
}

func TestForwarderEmptyUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/settings/theme", nil))

	assert.Equal(t, 204, w.Code)
}
