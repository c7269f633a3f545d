package seq

import (
	"slices"
	"strconv"
	"strings"
)

// Sequence is an ordered, mutable collection of int64 values.
// Insertion order is significant until SortAscending is called.
// The zero value is an empty sequence ready for use.
type Sequence struct {
	elems []int64
}

// New creates an empty sequence.
func New() *Sequence {
	return &Sequence{}
}

// FromValues creates a sequence holding a copy of the given values.
// The input slice is not retained.
func FromValues(values ...int64) *Sequence {
	s := &Sequence{elems: make([]int64, len(values))}
	copy(s.elems, values)
	return s
}

// Append adds v to the end of the sequence.
// Any representable int64 is accepted; the sequence grows by one.
func (s *Sequence) Append(v int64) {
	s.elems = append(s.elems, v)
}

// AppendAll appends values in order.
func (s *Sequence) AppendAll(values ...int64) {
	s.elems = append(s.elems, values...)
}

// SortAscending reorders the contents into non-decreasing order in place.
// The result is deterministic for a given multiset of values; ties among
// equal values are indistinguishable. No-op on empty or single-element
// sequences, and idempotent.
func (s *Sequence) SortAscending() {
	slices.Sort(s.elems)
}

// Render produces the single-line textual representation: each element's
// decimal form followed by a single space, then a line break.
// An empty sequence renders as just the line break.
//
// Rendering four appended values 5, 2, 8, 1 yields "5 2 8 1 \n".
func (s *Sequence) Render() string {
	var b strings.Builder
	for _, v := range s.elems {
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	return b.String()
}

// Sum returns the arithmetic sum of all elements, 0 when empty.
//
// Accumulation uses int64 (the element width) with two's-complement
// wraparound on overflow. Wrapping matches the element type's native
// addition; overflow is neither checked nor saturating.
func (s *Sequence) Sum() int64 {
	var total int64
	for _, v := range s.elems {
		total += v
	}
	return total
}

// Len returns the number of elements.
func (s *Sequence) Len() int {
	return len(s.elems)
}

// Values returns a copy of the current contents in order.
// Mutating the returned slice does not affect the sequence.
func (s *Sequence) Values() []int64 {
	out := make([]int64, len(s.elems))
	copy(out, s.elems)
	return out
}

// IsSorted reports whether the contents are in non-decreasing order.
// Vacuously true for empty and single-element sequences.
func (s *Sequence) IsSorted() bool {
	return slices.IsSorted(s.elems)
}
