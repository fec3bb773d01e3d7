package ring

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// VirtualNode is a single entry on the ring.
type VirtualNode struct {
	Position uint64
	Owner    string
}

// NodeInfo describes a registered physical node.
type NodeInfo struct {
	ID           string
	Weight       int
	VirtualNodes int
	Load         int64
}

// RingView is a point-in-time copy of ring placement state, detached
// from the live ring. It is safe to retain, diff, and inspect.
type RingView struct {
	// VirtualNodes is sorted ascending by position.
	VirtualNodes []VirtualNode
	// Nodes is sorted ascending by id.
	Nodes []NodeInfo
}

// BalanceStats summarizes how evenly the ring space is divided among
// physical nodes. Values are fractions of the whole ring.
type BalanceStats struct {
	Mean              float64
	Min               float64
	Max               float64
	StandardDeviation float64
}

// Owner resolves the node owning the given position, using the same
// clockwise successor rule as a live lookup. Returns false when the
// view holds no virtual nodes.
func (v RingView) Owner(position uint64) (string, bool) {
	if len(v.VirtualNodes) == 0 {
		return "", false
	}
	idx := sort.Search(len(v.VirtualNodes), func(i int) bool {
		return v.VirtualNodes[i].Position >= position
	})
	if idx == len(v.VirtualNodes) {
		idx = 0
	}
	return v.VirtualNodes[idx].Owner, true
}

// Shares returns the fraction of the ring space owned by each node.
func (v RingView) Shares() map[string]float64 {
	const ringSpace = float64(1<<63) * 2

	shares := make(map[string]float64, len(v.Nodes))
	for _, n := range v.Nodes {
		shares[n.ID] = 0
	}

	last := len(v.VirtualNodes) - 1
	switch {
	case last < 0:
		return shares
	case last == 0:
		shares[v.VirtualNodes[0].Owner] = 1
		return shares
	}

	prev := v.VirtualNodes[last].Position
	for _, vn := range v.VirtualNodes {
		// unsigned subtraction wraps, which is exactly the arc length
		// between the predecessor position and this one
		shares[vn.Owner] += float64(vn.Position-prev) / ringSpace
		prev = vn.Position
	}
	return shares
}

// Balance computes distribution statistics over per-node ring shares.
func (v RingView) Balance() (BalanceStats, error) {
	if len(v.VirtualNodes) == 0 {
		return BalanceStats{}, ErrEmptyRing
	}

	shares := v.Shares()
	values := make([]float64, 0, len(shares))
	for _, s := range shares {
		values = append(values, s)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return BalanceStats{}, err
	}
	min, err := stats.Min(values)
	if err != nil {
		return BalanceStats{}, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return BalanceStats{}, err
	}
	sd, err := stats.StandardDeviation(values)
	if err != nil {
		return BalanceStats{}, err
	}

	return BalanceStats{
		Mean:              mean,
		Min:               min,
		Max:               max,
		StandardDeviation: sd,
	}, nil
}

// Disruption reports the fraction of keys whose owner differs between
// two views. Rebalancers diff a pre- and post-membership-change
// snapshot over their key population to size the migration.
func Disruption(h Hasher, before, after RingView, keys [][]byte) (float64, error) {
	if len(before.VirtualNodes) == 0 || len(after.VirtualNodes) == 0 {
		return 0, ErrEmptyRing
	}
	if len(keys) == 0 {
		return 0, nil
	}

	moved := 0
	for _, key := range keys {
		p := h.Sum64(key)
		prev, _ := before.Owner(p)
		next, _ := after.Owner(p)
		if prev != next {
			moved++
		}
	}
	return float64(moved) / float64(len(keys)), nil
}
