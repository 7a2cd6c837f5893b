package match

import "sort"

// Ranker orders candidate sets for presentation. The sort is stable so
// candidates with equal scores keep the matcher's original order, which
// makes the visibility cutoff deterministic.
type Ranker struct {
	maxVisible int
}

// NewRanker builds a ranker that truncates to maxVisible candidates.
// A non-positive maxVisible disables truncation.
func NewRanker(maxVisible int) *Ranker {
	return &Ranker{maxVisible: maxVisible}
}

// Rank returns a new slice sorted by score descending and truncated to the
// visible window. The input is never mutated; the ranked snapshot belongs
// to the session for its whole lifetime.
func (r *Ranker) Rank(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if r.maxVisible > 0 && len(ranked) > r.maxVisible {
		ranked = ranked[:r.maxVisible]
	}
	return ranked
}

// Primary returns the highest-scored candidate of a ranked set, or false
// when the set is empty. An empty set means the workflow never leaves Idle.
func Primary(ranked []Candidate) (Candidate, bool) {
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	return ranked[0], true
}
