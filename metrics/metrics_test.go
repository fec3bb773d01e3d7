package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandlerExposesRingMetrics(t *testing.T) {
	as := require.New(t)

	SetRingSize(3, 384)
	IncAssign("node-a")
	IncRelease("node-a")
	IncBoundedFallback("node-b")
	ObserveMembershipChange("add", time.Now())

	recorder := httptest.NewRecorder()
	Handler(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	as.Equal(http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	as.Contains(body, "hashring_physical_nodes 3")
	as.Contains(body, "hashring_virtual_nodes 384")
	as.Contains(body, `hashring_assign_total{node="node-a"} 1`)
	as.Contains(body, `hashring_release_total{node="node-a"} 1`)
	as.Contains(body, `hashring_bounded_fallback_total{node="node-b"} 1`)
	as.Contains(body, "hashring_membership_change_seconds")
}
