package core

import (
	"sort"

	"cinedex-backend-go/internal/tmdb"
)

// Interleave merges lists round-robin by index: element 0 of every list,
// then element 1 of every list, and so on. Exhausted lists are skipped.
func Interleave[T any](lists [][]T) []T {
	total, longest := 0, 0
	for _, l := range lists {
		total += len(l)
		if len(l) > longest {
			longest = len(l)
		}
	}
	out := make([]T, 0, total)
	for i := 0; i < longest; i++ {
		for _, l := range lists {
			if i < len(l) {
				out = append(out, l[i])
			}
		}
	}
	return out
}

// AggregateRecommendations unions per-movie recommendation batches. Entries
// without an id, a title or a score are dropped; a repeated id keeps its
// last-seen instance; the result is sorted by descending score.
func AggregateRecommendations(batches [][]tmdb.MovieResult) []tmdb.MovieResult {
	byID := make(map[int]tmdb.MovieResult)
	order := make([]int, 0)
	for _, batch := range batches {
		for _, m := range batch {
			if m.ID == 0 || m.Title == "" || m.VoteAverage == nil {
				continue
			}
			if _, seen := byID[m.ID]; !seen {
				order = append(order, m.ID)
			}
			byID[m.ID] = m
		}
	}

	out := make([]tmdb.MovieResult, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}
