package buffer

// SizePolicy decides the capacity of the next chunk, given how many
// chunks have been retired so far.
type SizePolicy func(retired int) int

// FixedSize allocates every chunk with the same capacity.
func FixedSize(n int) SizePolicy {
	return func(int) int { return n }
}

// Doubling doubles the capacity with every retired chunk, starting from
// initial and capped at max.
func Doubling(initial, max int) SizePolicy {
	return func(retired int) int {
		size := initial
		for i := 0; i < retired && size < max; i++ {
			size *= 2
		}
		if size > max {
			size = max
		}
		return size
	}
}
