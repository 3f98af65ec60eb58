package bank

// ProgenyCounter holds, for each locally owned source particle, how many progeny it produced
// this generation. Entry i belongs to source particle i+1.
//
// Increment takes no lock. Concurrent calls are safe only for distinct indices, which holds when
// a particle's progeny are produced by the goroutine transporting that particle.
type ProgenyCounter struct {
	counts   []int64
	consumed bool
}

// Resize sets the counter to n zero entries.
func (c *ProgenyCounter) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if cap(c.counts) >= n {
		c.counts = c.counts[:n]
		clear(c.counts)
	} else {
		c.counts = make([]int64, n)
	}
	c.consumed = false
}

// Increment adds one progeny to the source particle at sourceIndex (0-based) and returns the
// count before the increment, which is the ProgenyID of the new progeny.
func (c *ProgenyCounter) Increment(sourceIndex int) int64 {
	id := c.counts[sourceIndex]
	c.counts[sourceIndex] = id + 1
	return id
}

// Len returns the number of source particles tracked.
func (c *ProgenyCounter) Len() int {
	return len(c.counts)
}

// Count returns the entry at sourceIndex: a progeny count before sorting, an offset after.
func (c *ProgenyCounter) Count(sourceIndex int) int64 {
	return c.counts[sourceIndex]
}

// Total returns the sum of all counts. Meaningless once Consumed.
func (c *ProgenyCounter) Total() int64 {
	var total int64
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Consumed reports whether a sort has turned the counts into offsets.
func (c *ProgenyCounter) Consumed() bool {
	return c.consumed
}

// Reset empties the counter.
func (c *ProgenyCounter) Reset() {
	c.counts = nil
	c.consumed = false
}
