package hcache

// Stats is a point-in-time snapshot of read outcomes (spec §3, §4.7
// get_stats). Hits and Misses are monotonically non-decreasing except
// across a Clear, which resets both to zero.
type Stats struct {
	Hits   uint64
	Misses uint64
}
