package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/session"
)

func TestParseGameMove(t *testing.T) {
	for s, want := range map[string]GameMove{"open": Open, "FLAG": Flag, "Chord": Chord} {
		move, err := ParseGameMove(s)
		require.NoError(t, err)
		assert.Equal(t, want, move)
	}

	_, err := ParseGameMove("dig")
	assert.ErrorIs(t, err, ErrBadMove)
	assert.EqualError(t, ErrBadMove, "move must be one of 'open', 'flag', 'chord'")
}

func TestParseClick(t *testing.T) {
	tests := []struct {
		kind, position string
		want           Click
	}{
		{"l", "1 1", Click{Move: Open, X: 0, Y: 0}},
		{"L", "3 2", Click{Move: Open, X: 2, Y: 1}},
		{"r", "1 5", Click{Move: Flag, X: 0, Y: 4}},
		{" x ", "  10   7 ", Click{Move: Flag, X: 9, Y: 6}},
	}
	for _, test := range tests {
		click, err := ParseClick(test.kind, test.position)
		require.NoError(t, err)
		assert.Equal(t, test.want, click)
	}

	for _, bad := range [][2]string{
		{"", "1 1"},
		{"l", ""},
		{"l", "1"},
		{"l", "1 2 3"},
		{"l", "a 1"},
		{"l", "1 b"},
		{"l", "0 1"},
		{"l", "1 -2"},
	} {
		_, err := ParseClick(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrBadQuery, "%q", bad)
	}
}

func TestParseCommands(t *testing.T) {
	params := mines.GameParams{Width: 3, Height: 2, MineCount: 1}

	cmds, err := parseCommands("o 0 0\n\n f 2 1 \nc 1 1\nr\ng\n", params)
	require.NoError(t, err)
	assert.Equal(t, []command{
		{kind: wsOpen},
		{kind: wsFlag, x: 2, y: 1},
		{kind: wsChord, x: 1, y: 1},
		{kind: wsForfeit},
		{kind: wsNoop},
	}, cmds)

	for _, bad := range []string{
		"o 3 0",
		"f 0 2",
		"o 0",
		"o x 0",
		"r 1",
		"q",
		"o 0 0\nnope",
	} {
		_, err := parseCommands(bad, params)
		assert.ErrorIs(t, err, ErrBadQuery, "%q", bad)
	}

	_, err = parseCommands("o 5 5", params)
	var idxErr mines.IndexError
	assert.ErrorAs(t, err, &idxErr)
}

func TestExecuteStopsWhenOver(t *testing.T) {
	m, err := mines.New(mines.GameParams{Width: 1, Height: 1, MineCount: 1}, nil)
	require.NoError(t, err)

	err = execute(m, []command{{kind: wsOpen}, {kind: wsFlag}})
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, m.State())
	assert.Zero(t, m.Flags())
}

func TestParseHighscoreFilter(t *testing.T) {
	filter, err := ParseHighscoreFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, session.HighscoreFilter{}, filter)

	filter, err = ParseHighscoreFilter(url.Values{
		"width": {"9"}, "height": {"9"}, "mine_count": {"10"}, "limit": {"5"},
	})
	require.NoError(t, err)
	assert.Equal(t, session.HighscoreFilter{
		GameParams: &mines.GameParams{Width: 9, Height: 9, MineCount: 10},
		Limit:      5,
	}, filter)

	filter, err = ParseHighscoreFilter(url.Values{"seed": {"30:16:99:1"}})
	require.NoError(t, err)
	assert.Equal(t, &mines.GameParams{Width: 30, Height: 16, MineCount: 99, SafeZone: mines.SafeZoneCell}, filter.GameParams)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{mines.ConfigError{Width: 0, Height: 1}, http.StatusBadRequest},
		{mines.IndexError{X: 5, Y: 5, Width: 1, Height: 1}, http.StatusBadRequest},
		{ErrBadMove, http.StatusBadRequest},
		{errTooLarge, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{session.ErrNotFound, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, statusFor(test.err), "%v", test.err)
	}
}
