package sched

import "math/bits"

// Bitset is a fixed-size set of job ids.
type Bitset []uint64

// NewBitset returns an empty set able to hold ids 0..n-1.
func NewBitset(n int) Bitset {
	return make(Bitset, (n+63)/64)
}

// FullBitset returns a set holding ids 0..n-1.
func FullBitset(n int) Bitset {
	b := NewBitset(n)
	for i := 0; i < n; i++ {
		b.Set(i)
	}
	return b
}

// Set adds i.
func (b Bitset) Set(i int) { b[i>>6] |= 1 << (uint(i) & 63) }

// Clear removes i.
func (b Bitset) Clear(i int) { b[i>>6] &^= 1 << (uint(i) & 63) }

// Has reports whether i is in the set.
func (b Bitset) Has(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }

// Len returns the number of members.
func (b Bitset) Len() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clone returns a copy.
func (b Bitset) Clone() Bitset { return append(Bitset(nil), b...) }

// Members appends the ids in ascending order to dst and returns it.
func (b Bitset) Members(dst []int) []int {
	for wi, w := range b {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			dst = append(dst, wi*64+tz)
			w &= w - 1
		}
	}
	return dst
}
