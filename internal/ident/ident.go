package ident

// NextID returns the next free identity for a collection: one greater than
// the current maximum, or 1 for an empty collection. It is a pure function
// of the ids passed in, so external deletions never cause collisions as long
// as every mutator allocates through it.
func NextID(existing []int64) int64 {
	var max int64
	for _, id := range existing {
		if id > max {
			max = id
		}
	}
	return max + 1
}
