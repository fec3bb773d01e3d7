package ring

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.miragespace.co/hashring/metrics"
	"go.miragespace.co/hashring/spec/ring"

	"go.uber.org/zap"
)

// AddNode registers a physical node and publishes a new ring holding
// VirtualNodes x weight entries for it. Virtual node positions are
// Hasher.Sum64(id + ":" + i); an exact position collision with an
// existing entry is resolved by probing ascending (wrapping at the top
// of the ring) to the first free position, so entries are never
// dropped and rebuilds with the same membership history reproduce the
// same ring.
func (r *HashRing) AddNode(id string, weight int) error {
	if id == "" {
		return fmt.Errorf("node id cannot be empty")
	}
	if weight < 1 || weight > ring.MaxWeight {
		return fmt.Errorf("invalid weight %d, must be between 1 and %d", weight, ring.MaxWeight)
	}
	defer metrics.ObserveMembershipChange("add", time.Now())

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cur := r.state.Load()
	if _, ok := cur.byID[id]; ok {
		return ring.ErrDuplicateNode
	}

	count := r.VirtualNodes * weight

	used := make(map[uint64]struct{}, len(cur.vnodes)+count)
	for _, vn := range cur.vnodes {
		used[vn.position] = struct{}{}
	}

	next := &ringState{
		vnodes:  make([]virtualNode, len(cur.vnodes), len(cur.vnodes)+count),
		members: make([]member, len(cur.members), len(cur.members)+1),
		byID:    make(map[string]int32, len(cur.members)+1),
	}
	copy(next.vnodes, cur.vnodes)
	copy(next.members, cur.members)
	for k, v := range cur.byID {
		next.byID[k] = v
	}

	owner := int32(len(next.members))
	next.members = append(next.members, member{
		id:           id,
		weight:       weight,
		virtualNodes: count,
	})
	next.byID[id] = owner

	for i := 0; i < count; i++ {
		p := r.Hasher.Sum64([]byte(id + ":" + strconv.Itoa(i)))
		for {
			if _, taken := used[p]; !taken {
				break
			}
			p++ // wraps past the top of the ring
		}
		used[p] = struct{}{}
		next.vnodes = append(next.vnodes, virtualNode{position: p, owner: owner})
	}

	sort.Slice(next.vnodes, func(i, j int) bool {
		return next.vnodes[i].position < next.vnodes[j].position
	})

	r.state.Store(next)

	r.Logger.Info("Node joined the ring",
		zap.String("node", id),
		zap.Int("weight", weight),
		zap.Int("virtual_nodes", count),
		zap.Int("ring_size", len(next.vnodes)),
	)
	metrics.SetRingSize(len(next.members), len(next.vnodes))

	return nil
}

// RemoveNode unregisters a physical node and publishes a new ring with
// all of its virtual nodes removed. The node's tracked load stops
// counting toward the bounded-load average.
func (r *HashRing) RemoveNode(id string) error {
	defer metrics.ObserveMembershipChange("remove", time.Now())

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cur := r.state.Load()
	removed, ok := cur.byID[id]
	if !ok {
		return ring.ErrNodeNotFound
	}

	next := &ringState{
		vnodes:  make([]virtualNode, 0, len(cur.vnodes)-cur.members[removed].virtualNodes),
		members: make([]member, 0, len(cur.members)-1),
		byID:    make(map[string]int32, len(cur.members)-1),
	}

	remap := make([]int32, len(cur.members))
	for i, m := range cur.members {
		if int32(i) == removed {
			remap[i] = -1
			continue
		}
		remap[i] = int32(len(next.members))
		next.members = append(next.members, m)
		next.byID[m.id] = remap[i]
	}
	for _, vn := range cur.vnodes {
		if vn.owner == removed {
			continue
		}
		next.vnodes = append(next.vnodes, virtualNode{
			position: vn.position,
			owner:    remap[vn.owner],
		})
	}

	r.state.Store(next)

	if counter, ok := r.loads.Load(id); ok {
		r.totalAssigned.Sub(counter.Load())
		r.loads.Delete(id)
	}

	r.Logger.Info("Node left the ring",
		zap.String("node", id),
		zap.Int("virtual_nodes", cur.members[removed].virtualNodes),
		zap.Int("ring_size", len(next.vnodes)),
	)
	metrics.SetRingSize(len(next.members), len(next.vnodes))

	return nil
}
