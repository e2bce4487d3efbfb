package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var errBoomMW = errors.New("boom")

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "hello") })
	r.GET("/statusonly", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ok", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404"))
	base204 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/statusonly", "204"))

	for _, p := range []string{"/ok", "/does-not-exist", "/statusonly"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ok", "200")); got != baseOK+1 {
		t.Fatalf("/ok counter=%v", got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404")); got != base404+1 {
		t.Fatalf("404 counter=%v", got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/statusonly", "204")); got != base204+1 {
		t.Fatalf("204 counter=%v", got)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight should settle at 0, got %v", got)
	}
}

func TestMetrics_CountsReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.POST("/farewells", func(c *gin.Context) {
		c.Set(ctxKeyIdemReplay, true)
		c.Status(http.StatusOK)
	})

	base := testutil.ToFloat64(idemReplays.WithLabelValues("/farewells"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/farewells", nil))
	if got := testutil.ToFloat64(idemReplays.WithLabelValues("/farewells")); got != base+1 {
		t.Fatalf("replays=%v", got)
	}
}
