// Package keys describes ranges over an ordered key space.
package keys

// All returns a new key range matching all keys
func All[K any]() Range[K] {
	return Range[K]{}
}

// Range represents all keys k such that
//   k >= Min and k < Max
// If Min = nil that indicates the start of all keys
// If Max = nil that indicates the end of all keys
type Range[K any] struct {
	Min *K
	Max *K
}

// Gte confines the range to keys that are
// greater than or equal to k
func (r Range[K]) Gte(k K) Range[K] {
	r.Min = &k

	return r
}

// Lt confines the range to keys that are
// less than k
func (r Range[K]) Lt(k K) Range[K] {
	r.Max = &k

	return r
}

// Contains returns true if k falls within the range.
// Keys are ordered by compare, which must return a
// negative number, zero, or a positive number when a
// is less than, equal to, or greater than b.
func (r Range[K]) Contains(k K, compare func(a, b K) int) bool {
	if r.Min != nil && compare(k, *r.Min) < 0 {
		return false
	}

	if r.Max != nil && compare(k, *r.Max) >= 0 {
		return false
	}

	return true
}
