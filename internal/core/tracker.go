package core

// ChangeSet accumulates the grid row positions touched during an editing
// session. Positions are deduplicated: recording the same index across any
// number of edit events has the same effect as recording it once. Iteration
// order is unspecified; consumers must treat the contents as an unordered
// set of positions.
type ChangeSet struct {
	rows map[int]struct{}
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{rows: make(map[int]struct{})}
}

// Record adds every given row index to the set. An empty call is a no-op.
func (c *ChangeSet) Record(indices ...int) {
	for _, i := range indices {
		c.rows[i] = struct{}{}
	}
}

// Len returns the number of distinct recorded indices.
func (c *ChangeSet) Len() int { return len(c.rows) }

// Empty reports whether nothing has been recorded.
func (c *ChangeSet) Empty() bool { return len(c.rows) == 0 }

// Indices returns the recorded positions in unspecified order.
func (c *ChangeSet) Indices() []int {
	out := make([]int, 0, len(c.rows))
	for i := range c.rows {
		out = append(out, i)
	}
	return out
}

// Reset empties the set.
func (c *ChangeSet) Reset() {
	c.rows = make(map[int]struct{})
}
