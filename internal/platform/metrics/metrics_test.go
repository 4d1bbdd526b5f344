package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "fuelbudget_test_total", Help: "test"}).Inc()

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "fuelbudget_test_total 1"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
