package graph

import "context"

const (
	pageRankDamping   = 0.85
	pageRankMaxIters  = 100
	pageRankTolerance = 1e-6
)

// PageRank computes the PageRank of every node via power iteration, with
// dangling nodes (zero out-degree) redistributing their rank mass uniformly
// over all nodes each iteration, converging when the L1 change between
// iterations drops below pageRankTolerance or after pageRankMaxIters.
// Checked at each iteration boundary, ctx cancellation aborts early and
// returns the ranks as of the last completed iteration.
func (g *Graph) PageRank(ctx context.Context) map[string]float64 {
	n := len(g.nodes)
	if n == 0 {
		return map[string]float64{}
	}

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < pageRankMaxIters; iter++ {
		if ctx.Err() != nil {
			break
		}
		next := make([]float64, n)
		base := (1 - pageRankDamping) / float64(n)
		for i := range next {
			next[i] = base
		}

		var danglingMass float64
		for u := 0; u < n; u++ {
			outDeg := len(g.out[u])
			if outDeg == 0 {
				danglingMass += rank[u]
				continue
			}
			share := pageRankDamping * rank[u] / float64(outDeg)
			for _, v := range g.out[u] {
				next[v] += share
			}
		}

		if danglingMass > 0 {
			redistributed := pageRankDamping * danglingMass / float64(n)
			for i := range next {
				next[i] += redistributed
			}
		}

		delta := l1Distance(rank, next)
		rank = next
		if delta < pageRankTolerance {
			break
		}
	}

	out := make(map[string]float64, n)
	for i, id := range g.nodes {
		out[id] = rank[i]
	}
	return out
}

func l1Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
