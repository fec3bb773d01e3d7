package ring

import "errors"

var (
	ErrEmptyRing            = errors.New("ring: no physical nodes registered")
	ErrDuplicateNode        = errors.New("ring/membership: a node with the same id is already registered")
	ErrNodeNotFound         = errors.New("ring/membership: node is not part of the ring")
	ErrInsufficientReplicas = errors.New("ring/replica: fewer distinct nodes available than requested")
)
