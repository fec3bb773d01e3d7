package ring

import (
	"sort"
	"sync"

	"go.miragespace.co/hashring/spec/ring"

	"github.com/zhangyunhao116/skipmap"
	"go.uber.org/atomic"
)

// virtualNode references its owner by arena index so the hot lookup
// array stays compact and allocation-free.
type virtualNode struct {
	position uint64
	owner    int32
}

type member struct {
	id           string
	weight       int
	virtualNodes int
}

// ringState is immutable once published. Membership changes build a
// new state off to the side and swap it in atomically; readers holding
// the old pointer keep seeing a complete, internally consistent ring.
type ringState struct {
	vnodes  []virtualNode // sorted ascending by position
	members []member      // arena, in registration order
	byID    map[string]int32
}

// HashRing is a consistent-hashing ring with virtual nodes and a
// bounded-load key assignment extension. All operations are
// synchronous, in-memory computations; the ring never stores keys or
// moves data.
type HashRing struct {
	Config

	// writeMu serializes membership changes only, the read path never
	// takes it
	writeMu sync.Mutex
	state   *atomic.Pointer[ringState]

	loads         *skipmap.StringMap[*atomic.Int64]
	totalAssigned *atomic.Int64
	fallbacks     *atomic.Int64
}

var _ ring.Ring = (*HashRing)(nil)

func New(conf Config) *HashRing {
	if err := conf.Validate(); err != nil {
		panic(err)
	}
	r := &HashRing{
		Config: conf.withDefaults(),
		state: atomic.NewPointer(&ringState{
			byID: make(map[string]int32),
		}),
		loads:         skipmap.NewString[*atomic.Int64](),
		totalAssigned: atomic.NewInt64(0),
		fallbacks:     atomic.NewInt64(0),
	}
	return r
}

// search returns the index of the first virtual node at or after
// position p, wrapping to index 0 past the last entry.
func (s *ringState) search(p uint64) int {
	idx := sort.Search(len(s.vnodes), func(i int) bool {
		return s.vnodes[i].position >= p
	})
	if idx == len(s.vnodes) {
		idx = 0
	}
	return idx
}

// walk collects up to count distinct owner ids clockwise from start.
// The result is shorter than count when the ring has fewer distinct
// physical nodes.
func (s *ringState) walk(start, count int) []string {
	if count > len(s.members) {
		count = len(s.members)
	}
	seen := make([]bool, len(s.members))
	owners := make([]string, 0, count)
	for i := 0; i < len(s.vnodes) && len(owners) < count; i++ {
		vn := s.vnodes[(start+i)%len(s.vnodes)]
		if seen[vn.owner] {
			continue
		}
		seen[vn.owner] = true
		owners = append(owners, s.members[vn.owner].id)
	}
	return owners
}

// Snapshot returns a consistent copy of the current ring, paired with
// a reading of the per-node load counters.
func (r *HashRing) Snapshot() ring.RingView {
	s := r.state.Load()

	view := ring.RingView{
		VirtualNodes: make([]ring.VirtualNode, len(s.vnodes)),
		Nodes:        make([]ring.NodeInfo, len(s.members)),
	}
	for i, vn := range s.vnodes {
		view.VirtualNodes[i] = ring.VirtualNode{
			Position: vn.position,
			Owner:    s.members[vn.owner].id,
		}
	}
	for i, m := range s.members {
		var load int64
		if counter, ok := r.loads.Load(m.id); ok {
			load = counter.Load()
		}
		view.Nodes[i] = ring.NodeInfo{
			ID:           m.id,
			Weight:       m.weight,
			VirtualNodes: m.virtualNodes,
			Load:         load,
		}
	}
	sort.Slice(view.Nodes, func(i, j int) bool {
		return view.Nodes[i].ID < view.Nodes[j].ID
	})
	return view
}

// NumNodes returns the number of registered physical nodes.
func (r *HashRing) NumNodes() int {
	return len(r.state.Load().members)
}

// Fallbacks returns how many AssignKey calls took the over-capacity
// fallback path since the ring was created.
func (r *HashRing) Fallbacks() int64 {
	return r.fallbacks.Load()
}
