package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cinedex-backend-go/internal/tmdb"
)

func TestInterleave(t *testing.T) {
	got := Interleave([][]string{
		{"A0", "A1"},
		{"B0", "B1", "B2"},
		{"C0"},
	})
	assert.Equal(t, []string{"A0", "B0", "C0", "A1", "B1", "B2"}, got)
}

func TestInterleaveSkipsEmptyLists(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Interleave([][]int{nil, {1, 3}, {}, {2}}))
	assert.Empty(t, Interleave[int](nil))
}

func TestAggregateRecommendations(t *testing.T) {
	x := tmdb.MovieResult{ID: 1, Title: "X", VoteAverage: score(7)}
	y := tmdb.MovieResult{ID: 2, Title: "Y", VoteAverage: score(8)}
	xLater := tmdb.MovieResult{ID: 1, Title: "X", Overview: "second copy", VoteAverage: score(7)}
	unscored := tmdb.MovieResult{ID: 3, Title: "Z"}
	untitled := tmdb.MovieResult{ID: 4, VoteAverage: score(9)}

	got := AggregateRecommendations([][]tmdb.MovieResult{
		{x, y},
		{xLater, unscored, untitled},
		nil,
	})

	assert.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 1, got[1].ID)
	assert.Equal(t, "second copy", got[1].Overview)
}

func TestAggregateRecommendationsStableOnTies(t *testing.T) {
	got := AggregateRecommendations([][]tmdb.MovieResult{
		{movie(5, "E", 6), movie(6, "F", 6)},
		{movie(7, "G", 6)},
	})
	ids := []int{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []int{5, 6, 7}, ids)
}

func TestAggregateRecommendationsLastSeenScoreDecidesOrder(t *testing.T) {
	got := AggregateRecommendations([][]tmdb.MovieResult{
		{movie(1, "X", 9), movie(2, "Y", 7)},
		{movie(3, "Z", 8), movie(1, "X", 5)},
	})

	ids := make([]int, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{3, 2, 1}, ids)
	assert.Equal(t, 5.0, got[2].Score())
}
