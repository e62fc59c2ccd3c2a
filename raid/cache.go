package raid

import (
	"strconv"
	"strings"

	"lukechampine.com/raid/matrix"
)

// decodeCache memoizes inverted decode matrices keyed by the failure
// pattern that produced them: repeated scrubs of a fixed-size array
// tend to re-hit the same small set of failure patterns, so caching
// avoids repeating Gauss-Jordan inversion of the same submatrix.
// Bounded and reset whenever the engine's mode (and therefore its
// matrix) changes.
type decodeCache struct {
	cap     int
	order   []string
	entries map[string]matrix.Matrix
}

func newDecodeCache(capacity int) *decodeCache {
	return &decodeCache{
		cap:     capacity,
		entries: make(map[string]matrix.Matrix, capacity),
	}
}

func cacheKey(rows, cols []int) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strconv.Itoa(r))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, c := range cols {
		b.WriteString(strconv.Itoa(c))
		b.WriteByte(',')
	}
	return b.String()
}

func (c *decodeCache) get(rows, cols []int) (matrix.Matrix, bool) {
	m, ok := c.entries[cacheKey(rows, cols)]
	return m, ok
}

func (c *decodeCache) put(rows, cols []int, inv matrix.Matrix) {
	key := cacheKey(rows, cols)
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.cap {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = inv
}

func (c *decodeCache) reset() {
	c.order = c.order[:0]
	c.entries = make(map[string]matrix.Matrix, c.cap)
}
