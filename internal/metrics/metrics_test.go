package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/v1/articles/:slug", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, slug := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/articles/"+slug, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/v1/articles/:slug", "404"))
	assert.Equal(t, float64(2), got)
}

func TestRecordContentOp(t *testing.T) {
	m := New()

	m.RecordContentOp("articles", "create", nil)
	m.RecordContentOp("articles", "create", errors.New("boom"))
	m.RecordContentOp("articles", "create", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ContentOps.WithLabelValues("articles", "create", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ContentOps.WithLabelValues("articles", "create", "error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordContentOp("videos", "delete", nil)
	m.RecordImport("videos", 1, 1)
	m.RecordCacheLookup("hit")
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.RecordImport("articles", 3, 1)
	m.RecordCacheLookup("miss")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `journal_import_records_total{outcome="success",resource="articles"} 3`)
	assert.Contains(t, string(body), `journal_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
