package server

const (
	// DefaultHelloInterval is the default per-interface Hello period,
	// in seconds.
	DefaultHelloInterval = 5

	// DefaultLSUInterval is the default LSU re-emission period, in
	// seconds, absent an earlier wake on a neighbor change.
	DefaultLSUInterval = 30

	// NeighborTimeout is how many seconds of silence remove a
	// neighbor.
	NeighborTimeout = 15

	// MaxLSUTTL is the TTL a freshly-originated LSU is stamped with.
	MaxLSUTTL = 32

	// maxDist and badGW are the Dijkstra sentinel values from
	// SPEC_FULL.md §4.5. badGW is distinct from a real gw of 0 (which
	// means "directly attached, no next-hop router") — it marks "no
	// path computed yet".
	maxDist = 1 << 30
	badGW   = 0xFFFFFFFF
)
