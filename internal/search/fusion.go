package search

import "sort"

// candidate accumulates per-signal scores for one record during fusion.
type candidate struct {
	id           string
	source       string
	lexical      float64
	semantic     float64
	score        float64
	titleHits    int
	matchedTerms []string
	injected     bool
	via          string
}

// minMaxNormalize rescales values to [0,1]. An all-equal array normalizes
// to all-zero so that a constant signal contributes nothing rather than
// dividing by zero.
func minMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(values))
	if max == min {
		return out
	}
	span := max - min
	for i, v := range values {
		out[i] = (v - min) / span
	}
	return out
}

// fuse computes final scores for a candidate set: min-max normalize each
// signal independently, weight-sum them, then add the title-overlap bonus.
func fuse(cands []*candidate, cfg Config) {
	if len(cands) == 0 {
		return
	}
	lexical := make([]float64, len(cands))
	semantic := make([]float64, len(cands))
	for i, c := range cands {
		lexical[i] = c.lexical
		semantic[i] = c.semantic
	}
	lexNorm := minMaxNormalize(lexical)
	semNorm := minMaxNormalize(semantic)

	for i, c := range cands {
		c.score = cfg.Weights.Lexical*lexNorm[i] + cfg.Weights.Semantic*semNorm[i]
		c.score += cfg.TitleBoost * float64(c.titleHits)
	}
}

// less orders candidates deterministically: fused score descending, direct
// matches before injected siblings, raw lexical score descending, then id
// ascending as the final tie-break.
func less(a, b *candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.injected != b.injected {
		return !a.injected
	}
	if a.lexical != b.lexical {
		return a.lexical > b.lexical
	}
	return a.id < b.id
}

func sortCandidates(cands []*candidate) {
	sort.Slice(cands, func(i, j int) bool { return less(cands[i], cands[j]) })
}
