package phase

// Interleave merges lists round robin: each round takes the next item of every
// list that still has one. Exhausted lists drop out, so A(3) and B(5) give
// A B A B A B B B.
func Interleave[T any](lists [][]T) []T {
	total := 0
	longest := 0
	for _, l := range lists {
		total += len(l)
		if len(l) > longest {
			longest = len(l)
		}
	}

	out := make([]T, 0, total)
	for i := 0; i < longest; i++ {
		for _, l := range lists {
			if i < len(l) {
				out = append(out, l[i])
			}
		}
	}
	return out
}
