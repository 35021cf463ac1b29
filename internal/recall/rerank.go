package recall

import (
	"math"
	"sort"
	"strings"
)

// rerank applies §4.7.1's dynamic re-ranking in place, used only when the
// winning result set is local (vector results keep similarity order).
func (p *Pipeline) rerank(results []SearchResult, queryTerms []string) {
	if len(results) == 0 {
		return
	}

	now := p.Store.NowMillis()
	for i := range results {
		content := strings.ToLower(results[i].Content + " " + results[i].Preview)

		best := 0.0
		for _, term := range queryTerms {
			lower := strings.ToLower(term)
			if lower == "" || !strings.Contains(content, lower) {
				continue
			}
			if w := dynamicWeight(p, lower, now); w > best {
				best = w
			}
		}

		similarity := 0.5
		if results[i].Similarity != nil {
			similarity = *results[i].Similarity
		}
		final := similarity * best
		if best == 0 {
			// No query term matched this result's content; fall back to the
			// plain similarity-or-default so the result isn't zeroed out.
			final = similarity
		}
		results[i].FinalScore = &final
	}

	sort.SliceStable(results, func(i, j int) bool {
		return deref(results[i].FinalScore) > deref(results[j].FinalScore)
	})
}

// dynamicWeight implements dynamic_weight(term) = min(1 + ln(count+1) /
// (1 + 0.1*days_since_last_seen), 2.0). A term absent from the store
// contributes its floor value of 1.0 (no reinforcement history, no decay).
func dynamicWeight(p *Pipeline, term string, nowMillis int64) float64 {
	detail, ok := p.Store.Detail(term)
	if !ok {
		return 1.0
	}
	daysSinceLastSeen := float64(nowMillis-detail.LastSeen) / float64(24*60*60*1000)
	if daysSinceLastSeen < 0 {
		daysSinceLastSeen = 0
	}
	w := 1 + math.Log(float64(detail.Count)+1)/(1+0.1*daysSinceLastSeen)
	if w > 2.0 {
		w = 2.0
	}
	return w
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
