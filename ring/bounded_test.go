package ring

import (
	"fmt"
	"math"
	"testing"

	"go.miragespace.co/hashring/spec/ring"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBoundedLoadInvariant(t *testing.T) {
	as := require.New(t)

	r := makeRing(t, as, 4)

	// heavily skewed input: four out of five assignments hit the same
	// hot key, which a plain Lookup would pin to a single node
	const total = 1000
	for i := 0; i < total; i++ {
		var key []byte
		if i%5 != 0 {
			key = []byte("hot-key")
		} else {
			key = []byte(fmt.Sprintf("key-%d", i))
		}
		_, err := r.AssignKey(key)
		as.NoError(err)
	}

	// capacity at the last assignment: floor(1.25 x 999/4) + 1
	limit := int64(math.Floor(ring.DefaultLoadFactor*float64(total-1)/4)) + 1

	var sum int64
	for _, n := range r.Snapshot().Nodes {
		as.LessOrEqualf(n.Load, limit, "node %s exceeded the soft bound", n.ID)
		sum += n.Load
	}
	as.Equal(int64(total), sum)

	// every candidate list covers all four nodes, so the fallback
	// path must never trigger
	as.Zero(r.Fallbacks())
}

func TestAssignReleaseCycle(t *testing.T) {
	as := require.New(t)

	r := makeRing(t, as, 3)
	keys := makeKeys(300)

	assigned := make(map[string]string, len(keys))
	for _, key := range keys {
		node, err := r.AssignKey(key)
		as.NoError(err)
		assigned[string(key)] = node
	}

	for _, key := range keys {
		as.NoError(r.ReleaseKey(key, assigned[string(key)]))
	}

	for _, n := range r.Snapshot().Nodes {
		as.Zero(n.Load)
	}
	as.Zero(r.totalAssigned.Load())
}

func TestReleaseKeyUnknownNode(t *testing.T) {
	as := require.New(t)

	r := makeRing(t, as, 2)
	as.ErrorIs(r.ReleaseKey([]byte("key"), "ghost"), ring.ErrNodeNotFound)
}

func TestReleaseKeyNeverNegative(t *testing.T) {
	as := require.New(t)

	r := makeRing(t, as, 2)
	// double release during a migration must not underflow
	as.NoError(r.ReleaseKey([]byte("key"), "node-0"))
	as.NoError(r.ReleaseKey([]byte("key"), "node-0"))

	for _, n := range r.Snapshot().Nodes {
		as.Zero(n.Load)
	}
	as.Zero(r.totalAssigned.Load())
}

func TestAssignKeyFallback(t *testing.T) {
	as := require.New(t)

	var (
		fallbackKey  []byte
		fallbackNode string
	)
	r := New(Config{
		Logger: zaptest.NewLogger(t),
		OnFallback: func(key []byte, node string) {
			fallbackKey = key
			fallbackNode = node
		},
	})
	for i := 0; i < 3; i++ {
		as.NoError(r.AddNode(fmt.Sprintf("node-%d", i), 1))
	}

	// inflate the counters without going through AssignKey: the
	// average stays zero, so capacity is 1 and every node is over it
	for i := 0; i < 3; i++ {
		r.counter(fmt.Sprintf("node-%d", i)).Store(10)
	}

	key := []byte("key")
	owner, err := r.Lookup(key)
	as.NoError(err)

	node, err := r.AssignKey(key)
	as.NoError(err)
	as.Equal(owner, node)
	as.Equal(int64(1), r.Fallbacks())
	as.Equal(key, fallbackKey)
	as.Equal(owner, fallbackNode)
	as.Equal(int64(11), r.counter(owner).Load())
}

func TestRemoveNodeDropsLoad(t *testing.T) {
	as := require.New(t)

	r := makeRing(t, as, 3)
	for _, key := range makeKeys(300) {
		_, err := r.AssignKey(key)
		as.NoError(err)
	}

	view := r.Snapshot()
	var removedLoad int64
	for _, n := range view.Nodes {
		if n.ID == "node-1" {
			removedLoad = n.Load
		}
	}
	as.Positive(removedLoad)

	as.NoError(r.RemoveNode("node-1"))
	as.Equal(int64(300)-removedLoad, r.totalAssigned.Load())

	_, ok := r.loads.Load("node-1")
	as.False(ok)
}
