package httpsignature

import "sync/atomic"

// nonceCounter is a monotonically increasing 16-bit counter. The counter
// is atomic, so concurrent Sign calls each get a distinct value. Values
// wrap to 0 past 65535.
type nonceCounter struct {
	counter atomic.Uint32
}

func newNonceCounter(seed uint16) *nonceCounter {
	c := &nonceCounter{}
	c.counter.Store(uint32(seed))

	return c
}

// next returns the current nonce value and advances the counter.
func (c *nonceCounter) next() uint16 {
	return uint16(c.counter.Add(1) - 1)
}
