package ring

import (
	"math"

	"go.miragespace.co/hashring/metrics"
	"go.miragespace.co/hashring/spec/ring"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// AssignKey places a key on the first node in its preference order
// whose tracked load is under the soft capacity, and increments that
// node's counter. When every node is at capacity the key goes to its
// natural owner anyway: liveness wins over the soft bound, and the
// violation is logged and surfaced through metrics and OnFallback.
func (r *HashRing) AssignKey(key []byte) (string, error) {
	s := r.state.Load()
	if len(s.vnodes) == 0 {
		return "", ring.ErrEmptyRing
	}

	idx := s.search(r.Hasher.Sum64(key))
	candidates := s.walk(idx, len(s.members))

	limit := r.capacity(len(s.members))
	for _, id := range candidates {
		counter := r.counter(id)
		if counter.Load() < limit {
			counter.Inc()
			r.totalAssigned.Inc()
			metrics.IncAssign(id)
			return id, nil
		}
	}

	owner := candidates[0]
	r.counter(owner).Inc()
	r.totalAssigned.Inc()
	r.fallbacks.Inc()
	metrics.IncAssign(owner)
	metrics.IncBoundedFallback(owner)
	r.Logger.Warn("Every node is at soft capacity, assigning to the natural owner",
		zap.String("node", owner),
		zap.Int64("capacity", limit),
	)
	if r.OnFallback != nil {
		r.OnFallback(key, owner)
	}
	return owner, nil
}

// ReleaseKey decrements the load counter of the node a key was
// previously assigned to. The counter never goes below zero, so a
// duplicate release during a migration is harmless. Returns
// ErrNodeNotFound for an unregistered node id.
func (r *HashRing) ReleaseKey(key []byte, nodeID string) error {
	s := r.state.Load()
	if _, ok := s.byID[nodeID]; !ok {
		return ring.ErrNodeNotFound
	}

	counter := r.counter(nodeID)
	for {
		cur := counter.Load()
		if cur <= 0 {
			return nil
		}
		if counter.CAS(cur, cur-1) {
			r.totalAssigned.Dec()
			metrics.IncRelease(nodeID)
			return nil
		}
	}
}

// capacity is floor(LoadFactor x average load) + 1, recomputed from
// the live counters on every assignment. The bound is soft: counters
// may read slightly stale under concurrent assignment.
func (r *HashRing) capacity(numNodes int) int64 {
	avg := float64(r.totalAssigned.Load()) / float64(numNodes)
	return int64(math.Floor(r.LoadFactor*avg)) + 1
}

func (r *HashRing) counter(id string) *atomic.Int64 {
	counter, _ := r.loads.LoadOrStoreLazy(id, func() *atomic.Int64 {
		return atomic.NewInt64(0)
	})
	return counter
}
