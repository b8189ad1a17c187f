package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	require.NotNil(t, pagesDiscoveredTotal)
	require.NotNil(t, purgeRequestsTotal)
	require.NotNil(t, warmRequestsTotal)
}

func TestObserversDoNotPanic(t *testing.T) {
	Init()

	ObservePagesDiscovered(10)
	ObservePagesDiscovered(0)
	ObservePurge("ok")
	ObservePurge("500")
	ObserveWarm("ok", 120*time.Millisecond)
	ObserveWarm("error", 0)
}

func TestServerRoutes(t *testing.T) {
	Init()
	ObservePurge("ok") // make sure the counter vec has at least one sample

	s := NewServer("127.0.0.1:0", zap.NewNop())

	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "purgepreload_purge_requests_total")
}
