package tracer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/apuntes-marketplace/app/observability/metrics"
)

func TestInit_ServesApplicationMetrics(t *testing.T) {
	p, err := Init("apuntes-test")
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	metrics.Get().SignupRequestsTotal.Add(context.Background(), 1)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signup_requests")
}
