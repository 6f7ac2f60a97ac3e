package gate

// Gate decides whether a retrieved evidence pool carries enough grounding
// signal for a cited answer. A single strong match is sufficient: requiring
// every candidate to be good would make the gate overly conservative, since
// the tail of a pool is usually noise.
type Gate struct {
	// Threshold is the maximum cosine distance a pool's best candidate may
	// have and still pass. Tied to the embedding model's distance scale, so
	// it must be recalibrated when the embedding provider changes.
	Threshold float64
}

func New(threshold float64) *Gate {
	return &Gate{Threshold: threshold}
}

// Passes reports whether the pool passes. An empty pool always fails.
func (g *Gate) Passes(distances []float64) bool {
	if len(distances) == 0 {
		return false
	}
	min := distances[0]
	for _, d := range distances[1:] {
		if d < min {
			min = d
		}
	}
	return min <= g.Threshold
}
