package markov

// Orders the selector draws from. Order 1 rambles, order 3 sticks
// close to the source; order 2 is the sweet spot.
const (
	MinOrder = 1
	MaxOrder = 3
)

// PickOrder draws an n-gram order: 1 with probability 0.10, 2 with
// probability 0.85, and 3 with probability 0.05.
func PickOrder(r Rand) int {
	v := r.Float64()
	switch {
	case v < 0.10:
		return 1
	case v < 0.95:
		return 2
	default:
		return 3
	}
}
