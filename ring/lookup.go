package ring

import (
	"fmt"

	"go.miragespace.co/hashring/spec/ring"
)

// Lookup returns the id of the node owning the given key: the owner of
// the first virtual node at or after the key's position, wrapping at
// the top of the ring.
func (r *HashRing) Lookup(key []byte) (string, error) {
	s := r.state.Load()
	if len(s.vnodes) == 0 {
		return "", ring.ErrEmptyRing
	}
	idx := s.search(r.Hasher.Sum64(key))
	return s.members[s.vnodes[idx].owner].id, nil
}

// GetReplicas walks the ring clockwise from the key's position,
// collecting distinct node ids. The first element always equals
// Lookup(key). When the ring holds fewer distinct nodes than
// requested, the partial list is returned with ErrInsufficientReplicas
// so callers can decide whether degraded placement is acceptable.
func (r *HashRing) GetReplicas(key []byte, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid replica count %d, must be positive", count)
	}
	s := r.state.Load()
	if len(s.vnodes) == 0 {
		return nil, ring.ErrEmptyRing
	}

	idx := s.search(r.Hasher.Sum64(key))
	owners := s.walk(idx, count)
	if len(owners) < count {
		return owners, ring.ErrInsufficientReplicas
	}
	return owners, nil
}
