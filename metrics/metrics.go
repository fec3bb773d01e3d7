package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var metricSet = metrics.NewSet()

// Handler writes all ring metrics in Prometheus exposition format.
func Handler(w http.ResponseWriter, _ *http.Request) {
	metricSet.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// SetRingSize records the ring dimensions after a membership change.
func SetRingSize(nodes, vnodes int) {
	metricSet.GetOrCreateCounter("hashring_physical_nodes").Set(uint64(nodes))
	metricSet.GetOrCreateCounter("hashring_virtual_nodes").Set(uint64(vnodes))
}

// ObserveMembershipChange records the duration of an AddNode or
// RemoveNode rebuild. op is "add" or "remove".
func ObserveMembershipChange(op string, start time.Time) {
	metricSet.GetOrCreateHistogram(
		fmt.Sprintf(`hashring_membership_change_seconds{op=%q}`, op),
	).UpdateDuration(start)
}

func IncAssign(node string) {
	metricSet.GetOrCreateCounter(
		fmt.Sprintf(`hashring_assign_total{node=%q}`, node),
	).Inc()
}

func IncRelease(node string) {
	metricSet.GetOrCreateCounter(
		fmt.Sprintf(`hashring_release_total{node=%q}`, node),
	).Inc()
}

// IncBoundedFallback counts AssignKey calls that found every candidate
// at capacity and fell back to the natural owner. The soft bound was
// exceeded on purpose, and this counter is how operators find out.
func IncBoundedFallback(node string) {
	metricSet.GetOrCreateCounter(
		fmt.Sprintf(`hashring_bounded_fallback_total{node=%q}`, node),
	).Inc()
}
