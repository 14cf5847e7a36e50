package match

import (
	"sort"
)

// DefaultSuggestThreshold is the minimum similarity a candidate needs to be suggested.
const DefaultSuggestThreshold = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates that look like name, best first.
// Candidates scoring below DefaultSuggestThreshold are dropped.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	var ranked []scored

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}

		score := Similarity(name, c)
		if stripped := similarityStripped(name, c); stripped > score {
			score = stripped
		}

		if score < DefaultSuggestThreshold {
			continue
		}

		ranked = append(ranked, scored{name: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) == 0 {
		return nil
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}

func similarityStripped(a, b string) float64 {
	na, nb := NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b)
	if na == "" || nb == "" {
		return 0
	}

	longest := max(len([]rune(na)), len([]rune(nb)))

	return 1.0 - float64(Levenshtein(na, nb))/float64(longest)
}
