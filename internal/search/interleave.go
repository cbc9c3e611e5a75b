package search

// interleave merges per-source ranked lists round-robin, one from each
// source in turn, so both marketplaces stay represented regardless of raw
// score. An explicit fairness policy overriding pure score order. Sources
// are visited in the given order; exhausted lists drop out of the rotation.
func interleave(sources []string, lists map[string][]*candidate) []*candidate {
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	out := make([]*candidate, 0, total)
	cursors := make(map[string]int, len(lists))

	for len(out) < total {
		progressed := false
		for _, src := range sources {
			list := lists[src]
			cur := cursors[src]
			if cur >= len(list) {
				continue
			}
			out = append(out, list[cur])
			cursors[src] = cur + 1
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}
