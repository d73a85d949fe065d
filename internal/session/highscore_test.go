package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vancomm/minefield/internal/mines"
)

func playtimes(scores []Highscore) []int64 {
	res := make([]int64, 0, len(scores))
	for _, h := range scores {
		res = append(res, h.PlaytimeMs)
	}
	return res
}

func TestHighscoresOrder(t *testing.T) {
	var table highscores
	for _, ms := range []int64{300, 100, 200, 100} {
		table.add(Highscore{Width: 9, Height: 9, MineCount: 10, SafeZone: "neighborhood", PlaytimeMs: ms})
	}
	assert.Equal(t, []int64{100, 100, 200, 300}, playtimes(table.list(HighscoreFilter{})))
	assert.Equal(t, []int64{100, 100}, playtimes(table.list(HighscoreFilter{Limit: 2})))
}

func TestHighscoresStableOnTies(t *testing.T) {
	var table highscores
	table.add(Highscore{GameSessionId: "first", PlaytimeMs: 10})
	table.add(Highscore{GameSessionId: "second", PlaytimeMs: 10})

	scores := table.list(HighscoreFilter{})
	assert.Equal(t, "first", scores[0].GameSessionId)
	assert.Equal(t, "second", scores[1].GameSessionId)
}

func TestHighscoresFilter(t *testing.T) {
	var table highscores
	table.add(Highscore{Width: 9, Height: 9, MineCount: 10, SafeZone: "neighborhood", PlaytimeMs: 5})
	table.add(Highscore{Width: 9, Height: 9, MineCount: 10, SafeZone: "cell", PlaytimeMs: 6})
	table.add(Highscore{Width: 16, Height: 16, MineCount: 40, SafeZone: "neighborhood", PlaytimeMs: 7})

	beginner := &mines.GameParams{Width: 9, Height: 9, MineCount: 10}
	assert.Equal(t, []int64{5}, playtimes(table.list(HighscoreFilter{GameParams: beginner})))

	none := &mines.GameParams{Width: 30, Height: 16, MineCount: 99}
	scores := table.list(HighscoreFilter{GameParams: none})
	assert.NotNil(t, scores)
	assert.Empty(t, scores)
}

func TestHighscoresCap(t *testing.T) {
	table := highscores{max: 2}
	table.add(Highscore{PlaytimeMs: 30})
	table.add(Highscore{PlaytimeMs: 10})
	table.add(Highscore{PlaytimeMs: 40})
	table.add(Highscore{PlaytimeMs: 20})

	assert.Equal(t, []int64{10, 20}, playtimes(table.list(HighscoreFilter{})))
}
