package dijkstra

// relaxEdges runs up to |V|−1 passes over the directed arc list, lowering
// dist[to] whenever dist[from]+w is strictly smaller. A pass that changes
// nothing ends the loop early. Arc order is the snapshot order, so repeated
// runs on the same graph give the same predecessors.
//
// Complexity: O(V · E) worst case, usually far fewer passes on road networks.
func relaxEdges(v *view, res *Result, cfg Options) {
	res.dist[res.source] = 0
	for pass := 1; pass < len(v.names); pass++ {
		changed := false
		for _, a := range v.arcs {
			if a.Weight >= cfg.InfEdgeThreshold {
				continue
			}
			du := res.dist[a.From]
			if du == Unreachable {
				continue
			}
			nd := du + a.Weight
			if nd > cfg.MaxDistance || nd >= res.dist[a.To] {
				continue
			}
			res.dist[a.To] = nd
			res.prev[a.To] = a.From
			changed = true
		}
		if !changed {
			break
		}
	}
}
