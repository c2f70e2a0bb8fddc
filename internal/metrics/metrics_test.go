package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrderOperationCountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(orderOperations.WithLabelValues(OperationCancel, "error"))
	RecordOrderOperation(OperationCancel, false)
	RecordOrderOperation(OperationCancel, false)
	after := testutil.ToFloat64(orderOperations.WithLabelValues(OperationCancel, "error"))
	assert.Equal(t, before+2, after)
}

func TestHandlerExposesRecordedSeries(t *testing.T) {
	ObserveHTTPRequest(http.MethodGet, "/api/v1/cart", http.StatusOK, 20*time.Millisecond)
	RecordEventPublish("order.placed", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "souq_http_requests_total"))
	assert.True(t, strings.Contains(body, "souq_order_event_publishes_total"))
}
