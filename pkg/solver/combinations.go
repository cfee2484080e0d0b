package solver

// Combinations enumerates the k-element subsets of the indices
// 0..n-1 in lexicographic order without recursion. The zero value is
// not usable; construct with NewCombinations.
//
//	c := NewCombinations(4, 2)
//	for c.Next() {
//		use(c.Indices()) // [0 1], [0 2], [0 3], [1 2], ...
//	}
type Combinations struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

// NewCombinations returns a generator over the k-subsets of n
// indices. If k > n or k < 0 the sequence is empty. If k == 0 the
// sequence holds exactly one, empty, subset.
func NewCombinations(n, k int) *Combinations {
	c := &Combinations{n: n, k: k}
	c.Reset()
	return c
}

// Reset rewinds the generator to the first subset.
func (c *Combinations) Reset() {
	c.started = false
	c.done = c.k < 0 || c.k > c.n
	if c.done {
		c.indices = nil
		return
	}
	c.indices = make([]int, c.k)
	for i := range c.indices {
		c.indices[i] = i
	}
}

// Next advances to the next subset and reports whether there was one.
func (c *Combinations) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		return true
	}
	// Find the rightmost index that can still move right.
	i := c.k - 1
	for i >= 0 && c.indices[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return false
	}
	c.indices[i]++
	for j := i + 1; j < c.k; j++ {
		c.indices[j] = c.indices[j-1] + 1
	}
	return true
}

// Indices returns the current subset. The slice is reused by Next and
// must be copied if retained.
func (c *Combinations) Indices() []int {
	return c.indices
}

// Count returns the number of subsets the generator yields, that is
// the binomial coefficient n choose k.
func (c *Combinations) Count() int {
	if c.k < 0 || c.k > c.n {
		return 0
	}
	k := c.k
	if k > c.n-k {
		k = c.n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (c.n - k + i) / i
	}
	return result
}
