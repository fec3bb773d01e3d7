package ring

const (
	// DefaultVirtualNodes is the number of ring entries generated per
	// unit of node weight. Higher values smooth out the key
	// distribution at the cost of a larger lookup table.
	DefaultVirtualNodes = 128

	// DefaultLoadFactor is (1 + epsilon) of the bounded-load
	// extension: no node should carry more than LoadFactor times the
	// average number of assigned keys, plus one.
	DefaultLoadFactor = 1.25

	// MaxWeight caps the per-node virtual node multiplier.
	MaxWeight = 100
)

// Ring maps keys to a dynamic set of physical nodes. Implementations
// are pure in-process data structures: they do not store keys or move
// data, they only answer which node(s) own a key.
type Ring interface {
	// AddNode registers a physical node and inserts its virtual nodes
	// into the ring. Weight multiplies the virtual node count. Returns
	// ErrDuplicateNode if id is already registered; changing the
	// weight of a registered node is modeled as remove then re-add.
	AddNode(id string, weight int) error

	// RemoveNode unregisters a physical node and removes all of its
	// virtual nodes. Returns ErrNodeNotFound if id is not registered.
	RemoveNode(id string) error

	// Lookup returns the id of the node owning the given key.
	Lookup(key []byte) (string, error)

	// GetReplicas returns an ordered preference list of count distinct
	// node ids, starting with the owner returned by Lookup. If fewer
	// distinct nodes exist, the partial list is returned together with
	// ErrInsufficientReplicas.
	GetReplicas(key []byte, count int) ([]string, error)

	// AssignKey picks the first node in the key's preference order
	// whose tracked load is under its soft capacity, and increments
	// that node's load counter.
	AssignKey(key []byte) (string, error)

	// ReleaseKey decrements the load counter of the node the caller
	// previously obtained from AssignKey. The ring does not remember
	// assignments; releasing against the correct node is the caller's
	// contract.
	ReleaseKey(key []byte, nodeID string) error

	// Snapshot returns a point-in-time copy of the placement state.
	Snapshot() RingView
}
