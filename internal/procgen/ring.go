package procgen

// Ring is a fixed-capacity FIFO buffer of float64 samples. Pushing past
// capacity evicts exactly the oldest sample.
type Ring struct {
	buf   []float64
	head  int // index of the oldest sample
	count int
}

// NewRing creates a ring with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample when full.
func (r *Ring) Push(v float64) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of stored samples.
func (r *Ring) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// At returns the i-th sample in insertion order, oldest first.
func (r *Ring) At(i int) float64 {
	return r.buf[(r.head+i)%len(r.buf)]
}

// Tail copies the newest n samples (oldest of those first) into dst and
// returns the slice. Fewer are returned if the ring holds fewer.
func (r *Ring) Tail(dst []float64, n int) []float64 {
	if n > r.count {
		n = r.count
	}
	dst = dst[:0]
	for i := r.count - n; i < r.count; i++ {
		dst = append(dst, r.At(i))
	}
	return dst
}
