package core

// DedupFilter tracks hashes of primary field values seen during a run.
//
// Values are hashed with djb2 and compared by hash only, so two distinct
// values that collide are reported as duplicates. The table never grows
// past its capacity: once full, new hashes are not recorded and repeats of
// unrecorded values go undetected.
type DedupFilter struct {
	hashes   []uint32
	capacity int
}

// NewDedupFilter creates a filter that records at most capacity hashes.
func NewDedupFilter(capacity int) *DedupFilter {
	if capacity < 0 {
		capacity = 0
	}
	return &DedupFilter{
		hashes:   make([]uint32, 0, min(capacity, 4096)),
		capacity: capacity,
	}
}

// Seen reports whether text was seen before, recording it if not and if
// capacity allows.
func (d *DedupFilter) Seen(text string) bool {
	h := Hash(text)
	for _, seen := range d.hashes {
		if seen == h {
			return true
		}
	}
	if len(d.hashes) < d.capacity {
		d.hashes = append(d.hashes, h)
	}
	return false
}

// Len returns the number of recorded hashes.
func (d *DedupFilter) Len() int { return len(d.hashes) }

// Cap returns the maximum number of recorded hashes.
func (d *DedupFilter) Cap() int { return d.capacity }

// Full reports whether new values are no longer being recorded.
func (d *DedupFilter) Full() bool { return len(d.hashes) >= d.capacity }

// Hash computes the 32-bit djb2 hash (seed 5381, h = h*33 + b) of s.
func Hash(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = h<<5 + h + uint32(s[i])
	}
	return h
}
