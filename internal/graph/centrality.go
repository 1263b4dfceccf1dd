package graph

// Betweenness computes normalized betweenness centrality for every node via
// Brandes' algorithm on the directed, unweighted graph: one BFS per source,
// back-propagating dependency scores along shortest-path DAGs. Normalized
// by 1/((n-1)(n-2)) for n > 2, left unnormalized (all zero) otherwise.
func (g *Graph) Betweenness() map[string]float64 {
	n := len(g.nodes)
	centrality := make([]float64, n)

	for s := 0; s < n; s++ {
		stack := make([]int, 0, n)
		preds := make([][]int, n)
		sigma := make([]float64, n)
		dist := make([]int, n)
		for i := range dist {
			dist[i] = -1
		}
		sigma[s] = 1
		dist[s] = 0

		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range g.out[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		delta := make([]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != s {
				centrality[w] += delta[w]
			}
		}
	}

	if n > 2 {
		norm := 1.0 / float64((n-1)*(n-2))
		for i := range centrality {
			centrality[i] *= norm
		}
	}

	out := make(map[string]float64, n)
	for i, id := range g.nodes {
		out[id] = centrality[i]
	}
	return out
}

// Closeness computes Wasserman-Faust ("wf-improved") closeness centrality
// for every node: for a node reaching r other nodes out of n-1 possible,
// with total shortest-path distance sumDist to them,
// closeness = (r/(n-1)) * (r/sumDist). Nodes that reach nobody get 0.
func (g *Graph) Closeness() map[string]float64 {
	n := len(g.nodes)
	out := make(map[string]float64, n)
	if n < 2 {
		for _, id := range g.nodes {
			out[id] = 0
		}
		return out
	}

	for s := 0; s < n; s++ {
		dist := make([]int, n)
		for i := range dist {
			dist[i] = -1
		}
		dist[s] = 0
		queue := []int{s}
		reachable := 0
		sumDist := 0

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range g.out[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					reachable++
					sumDist += dist[w]
					queue = append(queue, w)
				}
			}
		}

		if reachable == 0 || sumDist == 0 {
			out[g.nodes[s]] = 0
			continue
		}
		r := float64(reachable)
		out[g.nodes[s]] = (r / float64(n-1)) * (r / float64(sumDist))
	}

	return out
}

// ClusteringCoefficient computes the local clustering coefficient of every
// node on the undirected projection: the fraction of a node's neighbor
// pairs that are themselves connected. Nodes with degree < 2 get 0.
func (g *Graph) ClusteringCoefficient() map[string]float64 {
	neighbors := g.undirectedNeighbors()
	out := make(map[string]float64, len(g.nodes))

	for i, ns := range neighbors {
		k := len(ns)
		if k < 2 {
			out[g.nodes[i]] = 0
			continue
		}

		neighborSet := make(map[int]bool, k)
		for _, v := range ns {
			neighborSet[v] = true
		}

		links := 0
		for a := 0; a < k; a++ {
			for _, v := range neighbors[ns[a]] {
				if v != ns[a] && neighborSet[v] && v > ns[a] {
					links++
				}
			}
		}

		possible := float64(k * (k - 1) / 2)
		out[g.nodes[i]] = float64(links) / possible
	}

	return out
}
