package ring

import (
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher maps an arbitrary byte string to a position on the ring.
// Positions span the full uint64 space. Implementations must be
// deterministic across processes and restarts, as every member of a
// cluster has to agree on placement.
type Hasher interface {
	Sum64(data []byte) uint64
}

// XXH3Hasher is the default Hasher.
type XXH3Hasher struct{}

func (XXH3Hasher) Sum64(data []byte) uint64 {
	return xxh3.Hash(data)
}

// Murmur3Hasher is provided for interoperability with clusters that
// already position their keys with murmur3.
type Murmur3Hasher struct{}

func (Murmur3Hasher) Sum64(data []byte) uint64 {
	return murmur3.Sum64(data)
}
