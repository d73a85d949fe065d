package session

import (
	"cmp"
	"slices"
	"sync"

	"github.com/vancomm/minefield/internal/mines"
)

const defaultMaxHighscores = 1000

type Highscore struct {
	GameSessionId string `json:"game_session_id"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	MineCount     int    `json:"mine_count"`
	SafeZone      string `json:"safe_zone"`
	PlaytimeMs    int64  `json:"playtime_ms"`
	EndedAt       int64  `json:"ended_at"`
}

func newHighscore(s *session) Highscore {
	return Highscore{
		GameSessionId: s.id,
		Width:         s.field.Width,
		Height:        s.field.Height,
		MineCount:     s.field.MineCount,
		SafeZone:      s.field.SafeZone.String(),
		PlaytimeMs:    s.endedAt.Sub(s.startedAt).Milliseconds(),
		EndedAt:       s.endedAt.UnixMilli(),
	}
}

// HighscoreFilter narrows the table to one kind of game. A nil GameParams
// matches every game; a zero Limit means no limit.
type HighscoreFilter struct {
	GameParams *mines.GameParams
	Limit      int
}

func (f HighscoreFilter) match(h Highscore) bool {
	if f.GameParams == nil {
		return true
	}
	p := f.GameParams
	return h.Width == p.Width &&
		h.Height == p.Height &&
		h.MineCount == p.MineCount &&
		h.SafeZone == p.SafeZone.String()
}

// highscores is ordered by playtime, fastest first. Once full, a new entry
// pushes out the slowest.
type highscores struct {
	mu     sync.Mutex
	max    int
	scores []Highscore
}

func (t *highscores) add(h Highscore) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, _ := slices.BinarySearchFunc(t.scores, h, func(a, b Highscore) int {
		return cmp.Compare(a.PlaytimeMs, b.PlaytimeMs)
	})
	// equal playtimes keep arrival order
	for i < len(t.scores) && t.scores[i].PlaytimeMs == h.PlaytimeMs {
		i++
	}
	if t.max > 0 && i >= t.max {
		return
	}
	t.scores = slices.Insert(t.scores, i, h)
	if t.max > 0 && len(t.scores) > t.max {
		t.scores = t.scores[:t.max]
	}
}

func (t *highscores) list(filter HighscoreFilter) []Highscore {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := make([]Highscore, 0)
	for _, h := range t.scores {
		if !filter.match(h) {
			continue
		}
		res = append(res, h)
		if filter.Limit > 0 && len(res) == filter.Limit {
			break
		}
	}
	return res
}
